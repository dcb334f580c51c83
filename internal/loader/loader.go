package loader

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/pulse/internal/ids"
	"github.com/agenthands/pulse/internal/model"
)

// Dataset is one parsed input file: the person registry plus the activity
// batch, ready for the analyzers.
type Dataset struct {
	People     *model.Registry
	Activities []model.Activity
}

type personDoc struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Department string   `yaml:"department"`
	Role       string   `yaml:"role"`
	Email      string   `yaml:"email"`
	Skills     []string `yaml:"skills"`
}

type activityDoc struct {
	ID           string   `yaml:"id"`
	Type         string   `yaml:"type"`
	Timestamp    string   `yaml:"timestamp"`
	Content      string   `yaml:"content"`
	Tags         []string `yaml:"tags"`
	Participants []string `yaml:"participants"`
}

type document struct {
	People     []personDoc   `yaml:"people"`
	Activities []activityDoc `yaml:"activities"`
}

// Load reads and parses a YAML dataset file.
func Load(path string, log *zap.Logger) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file '%s': %w", path, err)
	}
	return Parse(data, log)
}

// Parse builds a dataset from YAML bytes. Every activity participant must
// reference a declared person; a dangling reference is an error rather than
// a silently dropped row.
func Parse(data []byte, log *zap.Logger) (*Dataset, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	people := model.NewRegistry()
	for i, pd := range doc.People {
		p, err := buildPerson(pd)
		if err != nil {
			return nil, fmt.Errorf("person %d: %w", i, err)
		}
		people.Add(p)
	}

	activities := make([]model.Activity, 0, len(doc.Activities))
	for i, ad := range doc.Activities {
		act, err := buildActivity(ad, people)
		if err != nil {
			return nil, fmt.Errorf("activity %d: %w", i, err)
		}
		activities = append(activities, act)
	}

	log.Info("dataset loaded",
		zap.Int("people", people.Len()),
		zap.Int("activities", len(activities)))
	return &Dataset{People: people, Activities: activities}, nil
}

func buildPerson(pd personDoc) (*model.Person, error) {
	if pd.Name == "" {
		return nil, fmt.Errorf("missing name")
	}
	email := strings.ToLower(strings.TrimSpace(pd.Email))
	id := pd.ID
	if id == "" {
		if email != "" {
			id = email
		} else {
			id = ids.New("p", pd.Name)
		}
	}
	return &model.Person{
		ID:         id,
		Name:       pd.Name,
		Department: pd.Department,
		Role:       pd.Role,
		Email:      email,
		Skills:     pd.Skills,
	}, nil
}

func buildActivity(ad activityDoc, people *model.Registry) (model.Activity, error) {
	ts, err := parseTimestamp(ad.Timestamp)
	if err != nil {
		return model.Activity{}, err
	}

	id := ad.ID
	if id == "" {
		id = ids.New("act", ad.Timestamp+"_"+ad.Content)
	}

	act := model.Activity{
		ID:        id,
		Type:      model.ParseActivityType(ad.Type),
		Timestamp: ts,
		Content:   ad.Content,
	}
	for _, tag := range ad.Tags {
		act.AddTag(tag)
	}
	for _, tag := range extractTags(ad.Content) {
		act.AddTag(tag)
	}

	for _, ref := range ad.Participants {
		pid := strings.TrimSpace(ref)
		if _, ok := people.Get(pid); !ok {
			// Emails double as person references.
			if p, ok := people.ByEmail(strings.ToLower(pid)); ok {
				pid = p.ID
			} else {
				return model.Activity{}, fmt.Errorf("unknown participant '%s'", ref)
			}
		}
		act.AddParticipant(pid)
	}
	return act, nil
}

var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	for _, format := range timestampFormats {
		if ts, err := time.Parse(format, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp '%s'", value)
}

var (
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
	bracketPattern = regexp.MustCompile(`\[(.+?)\]`)
)

// extractTags pulls hashtags and bracketed keywords out of free text.
func extractTags(content string) []string {
	var tags []string
	for _, m := range hashtagPattern.FindAllStringSubmatch(content, -1) {
		tags = append(tags, m[1])
	}
	for _, m := range bracketPattern.FindAllStringSubmatch(content, -1) {
		tags = append(tags, m[1])
	}
	return tags
}
