package maintenance

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"
)

// ObjectStore is the container surface the sweeper uses.
type ObjectStore interface {
	List(ctx context.Context) ([]string, error)
	URL(objectName string) string
	Delete(ctx context.Context, objectURL string) error
}

// RefSource lists the object URLs the database still references.
type RefSource func(ctx context.Context) ([]string, error)

// Target pairs a container with the table that references its objects.
type Target struct {
	Name  string
	Store ObjectStore
	Refs  RefSource
}

// Sweeper deletes container objects no image or user row points at anymore.
// Objects younger than minAge are left alone so an upload racing the sweep
// is never reaped before its row is committed.
type Sweeper struct {
	targets []Target
	minAge  time.Duration
	now     func() time.Time
}

func NewSweeper(targets []Target) *Sweeper {
	return &Sweeper{
		targets: targets,
		minAge:  24 * time.Hour,
		now:     time.Now,
	}
}

func (s *Sweeper) Run(ctx context.Context) {
	for _, t := range s.targets {
		if err := s.sweep(ctx, t); err != nil {
			log.Printf("sweep %s: %v", t.Name, err)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context, t Target) error {
	refs, err := t.Refs(ctx)
	if err != nil {
		return err
	}
	referenced := make(map[string]struct{}, len(refs))
	for _, u := range refs {
		referenced[u] = struct{}{}
	}

	names, err := t.Store.List(ctx)
	if err != nil {
		return err
	}

	removed := 0
	for _, name := range names {
		if s.tooYoung(name) {
			continue
		}
		if _, ok := referenced[t.Store.URL(name)]; ok {
			continue
		}

		if err := t.Store.Delete(ctx, t.Store.URL(name)); err != nil {
			log.Printf("sweep %s: delete %s: %v", t.Name, name, err)
			continue
		}
		removed++
	}

	log.Printf("sweep %s: %d objects listed, %d orphans removed", t.Name, len(names), removed)
	return nil
}

// tooYoung parses the upload timestamp out of the object name
// ({owner}_{millis}) and skips recent objects. Unparseable names are treated
// as young and never swept.
func (s *Sweeper) tooYoung(objectName string) bool {
	idx := strings.LastIndex(objectName, "_")
	if idx < 0 {
		return true
	}

	millis, err := strconv.ParseInt(objectName[idx+1:], 10, 64)
	if err != nil {
		return true
	}

	uploaded := time.UnixMilli(millis)
	return s.now().Sub(uploaded) < s.minAge
}
