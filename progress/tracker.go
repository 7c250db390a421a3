// Package progress keeps Completion Set: ids of levels solved at least once
// together with the text which solved them. Everything is persisted in
// store.KV, storage failures are logged and treated as absent data.
package progress

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"flexclass/store"
)

// Storage keys.
const (
	CompletedKey      = "flexclass-progress"
	SolutionKeyPrefix = "flexclass-solution-"
)

// SolutionKey returns key under which winning text for level is kept.
func SolutionKey(id int) string {
	return SolutionKeyPrefix + strconv.Itoa(id)
}

// Tracker is Completion Set backed by store.KV.
type Tracker struct {
	mu        sync.Mutex
	kv        store.KV
	log       *zap.Logger
	completed map[int]struct{}
}

// NewTracker loads Completion Set from kv.
func NewTracker(kv store.KV, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Tracker{kv: kv, log: log}
	t.Reload()
	return t
}

// Reload re-reads Completion Set from storage. Unreadable or malformed data
// gives empty set.
func (t *Tracker) Reload() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.completed = make(map[int]struct{})

	data, ok, err := t.kv.Load(CompletedKey)
	if err != nil {
		t.log.Warn("Unable to load progress, starting from scratch", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	ids, err := decodeIDs(data)
	if err != nil {
		t.log.Warn("Malformed progress data, starting from scratch", zap.String("data", data), zap.Error(err))
		return
	}
	for _, id := range ids {
		t.completed[id] = struct{}{}
	}
	t.log.Debug("Progress loaded", zap.Ints("completed", ids))
}

// Completed reports whether level was solved.
func (t *Tracker) Completed(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.completed[id]
	return ok
}

// IDs returns completed level ids in ascending order.
func (t *Tracker) IDs() []int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return slices.Sorted(maps.Keys(t.completed))
}

// Count returns number of completed levels.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.completed)
}

// Complete adds level to Completion Set and remembers text which solved it.
func (t *Tracker) Complete(id int, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.completed[id] = struct{}{}
	t.persist()
	if err := t.kv.Save(SolutionKey(id), text); err != nil {
		t.log.Warn("Unable to save solution", zap.Int("level", id), zap.Error(err))
	}
	t.log.Debug("Level completed", zap.Int("level", id))
}

// Solution returns remembered text for level.
func (t *Tracker) Solution(id int) (string, bool) {
	text, ok, err := t.kv.Load(SolutionKey(id))
	if err != nil {
		t.log.Warn("Unable to load solution", zap.Int("level", id), zap.Error(err))
		return "", false
	}
	return text, ok
}

// Forget removes level from Completion Set together with its text.
func (t *Tracker) Forget(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.completed, id)
	t.persist()
	if err := t.kv.Delete(SolutionKey(id)); err != nil {
		t.log.Warn("Unable to delete solution", zap.Int("level", id), zap.Error(err))
	}
	t.log.Debug("Level progress removed", zap.Int("level", id))
}

// ForgetAll empties Completion Set and removes texts for all given level
// ids, which normally are all ids in catalog.
func (t *Tracker) ForgetAll(ids []int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	clear(t.completed)

	var err error
	if er := t.kv.Delete(CompletedKey); er != nil {
		err = multierr.Append(err, er)
	}
	for _, id := range ids {
		if er := t.kv.Delete(SolutionKey(id)); er != nil {
			err = multierr.Append(err, er)
		}
	}
	if err != nil {
		t.log.Warn("Unable to remove some of progress data", zap.Error(err))
	}
	t.log.Debug("All progress removed")
}

// persist must be called with lock held.
func (t *Tracker) persist() {
	data, err := encodeIDs(slices.Sorted(maps.Keys(t.completed)))
	if err == nil {
		err = t.kv.Save(CompletedKey, data)
	}
	if err != nil {
		t.log.Warn("Unable to save progress", zap.Error(err))
	}
}

// encodeIDs produces YAML flow sequence ("[1, 2, 4]").
func encodeIDs(ids []int) (string, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle, Tag: "!!seq"}
	for _, id := range ids {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(id)})
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return "", fmt.Errorf("unable to encode progress: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func decodeIDs(data string) ([]int, error) {
	var ids []int
	if err := yaml.Unmarshal([]byte(data), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
