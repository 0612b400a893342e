package library

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
)

// Stage is the production stage of an asset.
type Stage int

const (
	Draft Stage = iota
	Review
	Approved
	Published
	Archived
)

var stageNames = []string{"draft", "review", "approved", "published", "archived"}

// Stages returns every stage in pipeline order.
func Stages() []Stage {
	return []Stage{Draft, Review, Approved, Published, Archived}
}

func (s Stage) String() string {
	if s < Draft || s > Archived {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// ParseStage parses a stage name case-insensitively.
func ParseStage(name string) (Stage, error) {
	_, i, ok := lo.FindIndexOf(stageNames, func(n string) bool {
		return strings.EqualFold(n, strings.TrimSpace(name))
	})
	if !ok {
		return Draft, fmt.Errorf("unknown stage %q, expected one of %s", name, strings.Join(stageNames, ", "))
	}
	return Stage(i), nil
}

func (s Stage) MarshalText() ([]byte, error) {
	if s < Draft || s > Archived {
		return nil, fmt.Errorf("invalid stage %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(b []byte) error {
	parsed, err := ParseStage(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// JSONSchema describes stages by name.
func (Stage) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "Production stage of the asset.",
		Enum:        lo.ToAnySlice(stageNames),
	}
}
