// Package storage keeps uploaded recordings and their transcripts.
package storage

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaxUploadSize is the largest accepted audio file.
const MaxUploadSize = 25 << 20

// Recording statuses.
const (
	StatusUploaded     = "uploaded"
	StatusTranscribing = "transcribing"
	StatusTranscribed  = "transcribed"
	StatusFailed       = "failed"
)

var allowedExtensions = map[string]bool{
	".mp3": true, ".mp4": true, ".mpeg": true, ".mpga": true, ".m4a": true,
	".wav": true, ".webm": true, ".ogg": true, ".flac": true,
}

var (
	ErrNotFound         = errors.New("recording not found")
	ErrUnsupportedAudio = errors.New("unsupported audio format")
	ErrTooLarge         = errors.New("audio file exceeds 25MB")
)

type Recording struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Path        string    `json:"-"`
	Status      string    `json:"status"`
	Size        int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
	Transcript  string    `json:"transcript"`
	Transcribed int       `json:"transcription_count"`
	Error       string    `json:"error,omitempty"`
}

// Store is an in-memory recording registry backed by files in Dir.
type Store struct {
	Dir string

	mu         sync.Mutex
	recordings map[string]*Recording
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir, recordings: make(map[string]*Recording)}
}

// SaveAudio saves uploaded audio file and returns the recording
func (s *Store) SaveAudio(file *multipart.FileHeader) (*Recording, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAudio, ext)
	}
	if file.Size > MaxUploadSize {
		return nil, ErrTooLarge
	}

	id := "rec_" + uuid.NewString()
	dst := filepath.Join(s.Dir, id+ext)

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	size, err := saveMultipartFile(file, dst)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	rec := &Recording{
		ID:        id,
		Name:      filepath.Base(file.Filename),
		Path:      dst,
		Status:    StatusUploaded,
		Size:      size,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.recordings[id] = rec
	s.mu.Unlock()

	recCopy := *rec
	return &recCopy, nil
}

// GetRecording retrieves a recording by ID
func (s *Store) GetRecording(id string) (*Recording, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recordings[id]
	if !ok {
		return nil, false
	}
	recCopy := *rec
	return &recCopy, true
}

// List returns all recordings, newest first.
func (s *Store) List() []Recording {
	s.mu.Lock()
	out := make([]Recording, 0, len(s.recordings))
	for _, rec := range s.recordings {
		out = append(out, *rec)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Rename changes the display name of a recording. The stored file keeps
// its path.
func (s *Store) Rename(id, name string) (*Recording, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name must not be empty")
	}
	return s.modify(id, func(r *Recording) { r.Name = name })
}

// Delete removes the recording and its audio file.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	rec, ok := s.recordings[id]
	if ok {
		delete(s.recordings, id)
	}
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if err := os.Remove(rec.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove audio file: %w", err)
	}
	return nil
}

// UpdateStatus updates the status of a recording
func (s *Store) UpdateStatus(id, status string) {
	s.update(id, func(r *Recording) { r.Status = status })
}

// UpdateError marks the recording failed with msg.
func (s *Store) UpdateError(id, msg string) {
	s.update(id, func(r *Recording) {
		r.Status = StatusFailed
		r.Error = msg
	})
}

// AppendTranscript adds the text of a new transcription. Successive
// transcriptions of one recording are separated by a blank line.
func (s *Store) AppendTranscript(id, text string) (*Recording, error) {
	return s.modify(id, func(r *Recording) {
		if r.Transcript == "" {
			r.Transcript = text
		} else {
			r.Transcript += "\n\n" + text
		}
		r.Transcribed++
		r.Status = StatusTranscribed
		r.Error = ""
	})
}

// SetTranscript replaces the transcript with a user-edited version.
func (s *Store) SetTranscript(id, text string) (*Recording, error) {
	return s.modify(id, func(r *Recording) { r.Transcript = text })
}

func (s *Store) update(id string, fn func(*Recording)) {
	_, _ = s.modify(id, fn)
}

func (s *Store) modify(id string, fn func(*Recording)) (*Recording, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recordings[id]
	if !ok {
		return nil, ErrNotFound
	}
	fn(rec)
	recCopy := *rec
	return &recCopy, nil
}

/* helper */
func saveMultipartFile(file *multipart.FileHeader, dst string) (int64, error) {
	src, err := file.Open()
	if err != nil {
		return 0, err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	return out.ReadFrom(src)
}
