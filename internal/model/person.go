package model

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// Person is a team member from the people directory. Immutable once loaded.
type Person struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// FirstName returns the first whitespace-delimited token of the name.
func (p Person) FirstName() string {
	fields := strings.Fields(p.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Directory is the closed set of known people, keyed by full name. Keys are
// unique; iteration order is stable (sorted by name).
type Directory struct {
	people []Person
	byName map[string]Person
}

// NewDirectory builds a directory from a list of people. Names must be
// non-empty and unique.
func NewDirectory(people []Person) (*Directory, error) {
	d := &Directory{byName: make(map[string]Person, len(people))}
	for _, p := range people {
		if strings.TrimSpace(p.Name) == "" {
			return nil, eris.New("model: directory entry with empty name")
		}
		if _, dup := d.byName[p.Name]; dup {
			return nil, eris.Errorf("model: duplicate directory entry %q", p.Name)
		}
		d.byName[p.Name] = p
		d.people = append(d.people, p)
	}
	sort.Slice(d.people, func(i, j int) bool { return d.people[i].Name < d.people[j].Name })
	return d, nil
}

// Get looks up a person by exact full name.
func (d *Directory) Get(name string) (Person, bool) {
	p, ok := d.byName[name]
	return p, ok
}

// People returns all entries in stable order.
func (d *Directory) People() []Person {
	return d.people
}

// Len returns the number of directory entries.
func (d *Directory) Len() int {
	return len(d.people)
}

// directoryEntry is the on-disk value shape: {"Full Name": {"email":..., "role":...}}.
type directoryEntry struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ParseDirectory parses the people directory JSON document.
func ParseDirectory(data []byte) (*Directory, error) {
	var raw map[string]directoryEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "model: parse people directory")
	}
	people := make([]Person, 0, len(raw))
	for name, entry := range raw {
		people = append(people, Person{Name: name, Email: entry.Email, Role: entry.Role})
	}
	return NewDirectory(people)
}

// LoadDirectory reads and parses a people directory file.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "model: read people directory %s", path)
	}
	return ParseDirectory(data)
}
