package statscache

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/hanawi96/testiq-sub006/internal/domain/types"
	"github.com/hanawi96/testiq-sub006/pkg/logger"
)

// fileEnvelope is the on-disk representation of a cached snapshot.
type fileEnvelope struct {
	Stats    types.Stats `json:"stats"`
	StoredAt time.Time   `json:"storedAt"`
}

// File implements Cache in a single JSON file so cached stats survive
// process restarts. Every operation is best-effort: a missing, expired, or
// unreadable file is simply a miss.
type File struct {
	cfg  config
	path string
	log  logger.Logger

	mu sync.Mutex
}

// NewFile creates a file-backed stats cache at path.
func NewFile(path string, opts ...Option) *File {
	return &File{
		cfg:  newConfig(opts...),
		path: path,
		log:  logger.Get().Named("statscache"),
	}
}

// Get implements Cache.
func (f *File) Get(ctx context.Context) (types.Stats, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.log.Debug(ctx, "stats cache read failed", logger.Error(err))
		}
		return types.Stats{}, false
	}

	var env fileEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		f.log.Debug(ctx, "stats cache decode failed", logger.Error(err))
		return types.Stats{}, false
	}

	if f.cfg.expired(env.StoredAt) {
		return types.Stats{}, false
	}
	return env.Stats, true
}

// Put implements Cache. The file is written to a temp path and renamed so
// readers never observe a partial write.
func (f *File) Put(ctx context.Context, stats types.Stats) {
	f.mu.Lock()
	defer f.mu.Unlock()

	env := fileEnvelope{Stats: stats, StoredAt: f.cfg.clk.Now()}
	data, err := json.Marshal(env)
	if err != nil {
		f.log.Warn(ctx, "stats cache encode failed", logger.Error(err))
		return
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		f.log.Warn(ctx, "stats cache write failed", logger.Error(err))
		return
	}
	if err := os.Rename(tmp, f.path); err != nil {
		f.log.Warn(ctx, "stats cache rename failed", logger.Error(err))
	}
}

// Clear implements Cache.
func (f *File) Clear(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		f.log.Warn(ctx, "stats cache remove failed", logger.Error(err))
	}
}
