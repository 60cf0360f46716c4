// Package audio plays narration files by URL.
package audio

// Handle is a started playback. Stop is idempotent and returns only after the
// playback resources are released.
type Handle interface {
	Stop()
}

// Driver starts playback of a URL. Play never blocks on the playback itself
// and never reports failure to the caller; drivers log failures.
type Driver interface {
	Play(url string) Handle
}

// NopDriver plays nothing. Used when audio is muted.
type NopDriver struct{}

// Play returns a handle that does nothing.
func (NopDriver) Play(string) Handle {
	return nopHandle{}
}

type nopHandle struct{}

func (nopHandle) Stop() {}
