package alerts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-blackout/internal/codec"
	"github.com/oshokin/alarm-blackout/internal/config"
	"github.com/oshokin/alarm-blackout/internal/domain/alert"
)

// fieldAlerts is the top-level key of the store file.
const fieldAlerts = "alerts"

// FileRepository persists alerts to a JSON file on disk.
// JSON is produced and consumed via protojson over the same Struct
// representation the intake API uses.
type FileRepository struct {
	// path is the filesystem location of the JSON store file.
	path string
	// now returns the current time, injectable for tests.
	now func() time.Time
	// mu protects concurrent access to the store file.
	mu sync.Mutex
}

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
		now:  time.Now,
	}
}

// FindAll reads every alert from disk. A missing file holds no alerts.
func (r *FileRepository) FindAll(_ context.Context) ([]*alert.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.load()
	if err != nil {
		return nil, err
	}

	result := make([]*alert.Alert, 0, len(stored))
	for _, a := range stored {
		result = append(result, a)
	}

	sortByID(result)

	return result, nil
}

// Get reads a single alert from disk.
func (r *FileRepository) Get(_ context.Context, id string) (*alert.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.load()
	if err != nil {
		return nil, err
	}

	a, ok := stored[id]
	if !ok {
		return nil, ErrNotFound
	}

	return a, nil
}

// Save inserts or replaces the alert on disk.
func (r *FileRepository) Save(_ context.Context, a *alert.Alert) error {
	if a == nil || a.ID == "" {
		return errNilAlert
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.load()
	if err != nil {
		return err
	}

	stored[a.ID] = a.Clone()

	return r.store(stored)
}

// SetStatus implements Repository.
func (r *FileRepository) SetStatus(ctx context.Context, a *alert.Alert, status alert.Status, reason alert.Reason) error {
	if a == nil || a.ID == "" {
		return errNilAlert
	}

	a.SetStatus(status, reason, r.now())

	return r.Save(ctx, a)
}

// load decodes the store file into alerts keyed by id.
func (r *FileRepository) load() (map[string]*alert.Alert, error) {
	stored := make(map[string]*alert.Alert)

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return stored, nil
		}

		return nil, fmt.Errorf("read alert store: %w", err)
	}

	var document structpb.Struct
	if err = protojson.Unmarshal(contents, &document); err != nil {
		return nil, fmt.Errorf("decode alert store: %w", err)
	}

	for _, v := range document.GetFields()[fieldAlerts].GetListValue().GetValues() {
		a, err := codec.AlertFromStruct(v.GetStructValue())
		if err != nil {
			return nil, fmt.Errorf("decode alert store: %w", err)
		}

		stored[a.ID] = a
	}

	return stored, nil
}

// store encodes alerts and writes them to disk.
func (r *FileRepository) store(stored map[string]*alert.Alert) error {
	list := make([]*alert.Alert, 0, len(stored))
	for _, a := range stored {
		list = append(list, a)
	}

	sortByID(list)

	values := make([]*structpb.Value, 0, len(list))
	for _, a := range list {
		s, err := codec.AlertToStruct(a)
		if err != nil {
			return err
		}

		values = append(values, structpb.NewStructValue(s))
	}

	document := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldAlerts: structpb.NewListValue(&structpb.ListValue{Values: values}),
		},
	}

	data, err := protojson.MarshalOptions{Multiline: true}.Marshal(document)
	if err != nil {
		return fmt.Errorf("encode alert store: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write alert store: %w", err)
	}

	return nil
}
