// Package catalog loads the static activity catalog the planner browses.
package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	appLog "atlanend/internal/log"
	"atlanend/internal/model"
)

//go:embed seed.yaml
var defaultSeed []byte

var (
	ErrEmpty       = errors.New("catalog: no activities")
	ErrDuplicateID = errors.New("catalog: duplicate activity id")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the embedded seed catalog.
func Default() ([]model.Activity, error) {
	return Parse(defaultSeed)
}

// Parse decodes a YAML list of activities and validates it. Every returned
// activity starts unselected.
func Parse(data []byte) ([]model.Activity, error) {
	var activities []model.Activity
	if err := yaml.Unmarshal(data, &activities); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	for i := range activities {
		activities[i].IsSelected = false
		if activities[i].Tags == nil {
			activities[i].Tags = []string{}
		}
	}
	if err := Validate(activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// LoadFile reads and parses a YAML catalog from path.
func LoadFile(path string) ([]model.Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Validate checks struct-level rules for every activity and id uniqueness.
// All problems are reported together.
func Validate(activities []model.Activity) error {
	if len(activities) == 0 {
		return ErrEmpty
	}

	var errs []error
	seen := make(map[string]int, len(activities))
	for i, a := range activities {
		if err := validate.Struct(a); err != nil {
			errs = append(errs, fmt.Errorf("catalog: activity %d (%q): %s", i, a.ID, describe(err)))
		}
		if a.ID == "" {
			continue
		}
		if first, ok := seen[a.ID]; ok {
			errs = append(errs, fmt.Errorf("%w: %q at %d and %d", ErrDuplicateID, a.ID, first, i))
			continue
		}
		seen[a.ID] = i
	}
	return errors.Join(errs...)
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// Options selects where the catalog comes from. URL wins over Path; with
// neither set the embedded seed is used.
type Options struct {
	Path     string
	URL      string
	CacheDir string
}

// Load resolves the catalog per opts. A remote catalog that cannot be fetched
// or parsed falls back to the embedded seed; a local file that cannot be read
// is an error.
func Load(ctx context.Context, opts Options) ([]model.Activity, error) {
	if opts.URL != "" {
		activities, err := loadRemote(ctx, opts)
		if err == nil {
			return activities, nil
		}
		appLog.Error("catalog: remote load failed, using embedded seed", err, "url", redactURL(opts.URL))
		return Default()
	}
	if opts.Path != "" {
		activities, err := LoadFile(opts.Path)
		if err != nil {
			return nil, err
		}
		appLog.Info("catalog loaded from file", "path", opts.Path, "activities", len(activities))
		return activities, nil
	}
	return Default()
}

func loadRemote(ctx context.Context, opts Options) ([]model.Activity, error) {
	res, err := NewFetcher(opts.CacheDir).Fetch(ctx, opts.URL)
	if err != nil {
		return nil, err
	}
	activities, err := Parse(res.Body)
	if err != nil {
		return nil, err
	}
	appLog.Info("catalog loaded from url", "url", redactURL(opts.URL), "activities", len(activities), "from_cache", res.FromCache)
	return activities, nil
}
