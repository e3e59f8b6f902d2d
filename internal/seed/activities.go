package seed

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mergington/activities-api/internal/models"
)

// Default returns the built-in activity catalog the service starts with when
// no seed file is configured.
func Default() models.Roster {
	return models.Roster{
		"Chess Club": {
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		"Programming Class": {
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		"Gym Class": {
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
		"Soccer Team": {
			Description:     "Join the school soccer team and compete in matches",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 22,
			Participants:    []string{"liam@mergington.edu", "noah@mergington.edu"},
		},
		"Basketball Team": {
			Description:     "Practice and play basketball with the school team",
			Schedule:        "Wednesdays and Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 15,
			Participants:    []string{"ava@mergington.edu", "mia@mergington.edu"},
		},
		"Art Club": {
			Description:     "Explore your creativity through painting and drawing",
			Schedule:        "Thursdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 15,
			Participants:    []string{"amelia@mergington.edu", "harper@mergington.edu"},
		},
		"Drama Club": {
			Description:     "Act, direct, and produce plays and performances",
			Schedule:        "Mondays and Wednesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"ella@mergington.edu", "scarlett@mergington.edu"},
		},
		"Math Club": {
			Description:     "Solve challenging problems and prepare for math competitions",
			Schedule:        "Tuesdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 10,
			Participants:    []string{"james@mergington.edu", "benjamin@mergington.edu"},
		},
		"Debate Team": {
			Description:     "Develop public speaking and argumentation skills",
			Schedule:        "Fridays, 4:00 PM - 5:30 PM",
			MaxParticipants: 12,
			Participants:    []string{"charlotte@mergington.edu", "henry@mergington.edu"},
		},
	}
}

type seedActivity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Load returns the roster described by the JSON file at path, or the built-in
// catalog when path is empty.
func Load(path string) (models.Roster, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a JSON seed file mapping activity names to records and
// validates the roster invariants before handing it to the store.
func LoadFile(path string) (models.Roster, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var raw map[string]seedActivity
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	roster := make(models.Roster, len(raw))
	for name, activity := range raw {
		if name == "" {
			return nil, fmt.Errorf("seed file contains an activity with an empty name")
		}
		if activity.MaxParticipants <= 0 {
			return nil, fmt.Errorf("activity %q: max_participants must be positive", name)
		}
		if len(activity.Participants) > activity.MaxParticipants {
			return nil, fmt.Errorf("activity %q: %d participants exceed capacity %d", name, len(activity.Participants), activity.MaxParticipants)
		}
		seen := make(map[string]struct{}, len(activity.Participants))
		for _, email := range activity.Participants {
			if email == "" {
				return nil, fmt.Errorf("activity %q: participant email must not be empty", name)
			}
			if _, dup := seen[email]; dup {
				return nil, fmt.Errorf("activity %q: duplicate participant %s", name, email)
			}
			seen[email] = struct{}{}
		}

		roster[name] = models.Activity{
			Description:     activity.Description,
			Schedule:        activity.Schedule,
			MaxParticipants: activity.MaxParticipants,
			Participants:    activity.Participants,
		}
	}

	return roster, nil
}
