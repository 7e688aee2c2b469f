package repositories

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tropicaldog17/dashboards/internal/models"
)

type seedMember struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// LoadRosterSeed reads a YAML member list:
//
//	members:
//	  - username: amy
//	    password: $2a$10$...
//	    name: Amy
//
// File order becomes roster order. Usernames must be unique.
func LoadRosterSeed(path string) ([]models.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster seed: %w", err)
	}
	var doc struct {
		Members []seedMember `yaml:"members"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse roster seed: %w", err)
	}

	users := make([]models.User, 0, len(doc.Members))
	seen := make(map[string]bool, len(doc.Members))
	for i, m := range doc.Members {
		username := strings.TrimSpace(m.Username)
		if username == "" || strings.TrimSpace(m.Name) == "" {
			return nil, fmt.Errorf("roster seed member %d: username and name are required", i+1)
		}
		if seen[username] {
			return nil, fmt.Errorf("roster seed member %d: duplicate username %q", i+1, username)
		}
		seen[username] = true
		users = append(users, models.User{Username: username, Password: m.Password, Name: strings.TrimSpace(m.Name)})
	}
	return users, nil
}
