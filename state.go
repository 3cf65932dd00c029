package imgconv

import (
	"slices"
	"sync"

	"github.com/gogpu/imgconv/datauri"
)

// StateSnapshot is a consistent view of an ImageState.
type StateSnapshot struct {
	Image    string
	Filename string

	// Loaded is true iff Image is non-empty.
	Loaded bool
}

// ImageState holds the image currently selected by the caller: a Base64
// data URI (or "" when none is loaded) and its file name.
//
// Assignments are not validated; decode is the only validation point.
// ImageLoaded is derived from the current image on every read and is never
// stored. Observers registered with Subscribe are called synchronously
// after each mutation with a snapshot of the new state. Mutations and
// their notifications are serialized, so observers see snapshots in the
// order the mutations happened and the last one delivered matches the
// current state. Observers may read the state but must not mutate it.
//
// ImageState is safe for concurrent use.
type ImageState struct {
	// notifyMu is held from mutation through dispatch. It is taken
	// before mu.
	notifyMu sync.Mutex

	mu       sync.RWMutex
	image    string
	filename string

	nextID    int
	observers []observer
}

type observer struct {
	id int
	fn func(StateSnapshot)
}

// NewImageState returns an empty state with no image loaded.
func NewImageState() *ImageState {
	return &ImageState{}
}

// Image returns the current image data URI.
func (s *ImageState) Image() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.image
}

// Filename returns the current file name.
func (s *ImageState) Filename() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filename
}

// ImageLoaded reports whether an image is loaded.
func (s *ImageState) ImageLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.image != ""
}

// Snapshot returns the current state.
func (s *ImageState) Snapshot() StateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *ImageState) snapshotLocked() StateSnapshot {
	return StateSnapshot{
		Image:    s.image,
		Filename: s.filename,
		Loaded:   s.image != "",
	}
}

// SetImage replaces the image data URI.
func (s *ImageState) SetImage(image string) {
	s.update(func() {
		s.image = image
	})
}

// SetFilename replaces the file name.
func (s *ImageState) SetFilename(filename string) {
	s.update(func() {
		s.filename = filename
	})
}

// Set replaces both fields with a single notification.
func (s *ImageState) Set(image, filename string) {
	s.update(func() {
		s.image = image
		s.filename = filename
	})
}

// LoadBytes stores data as a Base64 data URI, sniffing its media type from
// the content, together with filename.
func (s *ImageState) LoadBytes(filename string, data []byte) {
	s.Set(datauri.FromBytes(data), filename)
}

// Clear unloads the image and forgets the file name.
func (s *ImageState) Clear() {
	s.Set("", "")
}

// Subscribe registers fn to be called after every mutation, in
// registration order. fn must not mutate s; it may read s and call the
// returned cancel function. Cancel is safe to call more than once.
func (s *ImageState) Subscribe(fn func(StateSnapshot)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, observer{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.observers = slices.DeleteFunc(s.observers, func(o observer) bool {
			return o.id == id
		})
	}
}

func (s *ImageState) update(mutate func()) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	mutate()
	snap := s.snapshotLocked()
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	for _, o := range observers {
		o.fn(snap)
	}
}
