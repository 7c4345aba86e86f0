// Package manifest implements the declarative manifest describing the files
// tracked in a pot repository. The manifest is a YAML document with a single
// top-level `dotfiles` sequence; each element names a tracked file, its
// destination in the environment and the action used to place it there.
package manifest

import (
	stderrors "errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/east825/pot/pkg/errors"
	"github.com/east825/pot/pkg/paths"
)

// Action is the mode of materializing an entry at its destination
type Action string

// Placement actions
const (
	ActionSymlink Action = "symlink"
	ActionCopy    Action = "copy"
	ActionInclude Action = "include"
)

// DefaultAction is used when an entry does not specify one
const DefaultAction = ActionSymlink

// ParseAction validates an action string. Unknown actions are a
// configuration error, rejected at parse time rather than mis-dispatched
// at install time.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionSymlink, ActionCopy, ActionInclude:
		return Action(s), nil
	case "":
		return DefaultAction, nil
	default:
		return "", errors.Newf(errors.ErrConfigInvalid, "unknown action %q (expected symlink, copy or include)", s)
	}
}

// Entry represents a single tracked dotfile.
//
// Name is the file's name inside the repository's storage subdirectory and
// the entry's unique key. Target is the destination path in the environment;
// a leading ~ is expanded at install time, not here. Field order in the
// struct drives the serialized key order, which keeps the manifest diffable.
type Entry struct {
	Name   string `yaml:"name"`
	Target string `yaml:"target"`
	Action Action `yaml:"action"`
}

// NewEntry creates an entry for name with the default target (~/<name>)
// and the default action
func NewEntry(name string) Entry {
	return Entry{
		Name:   name,
		Target: paths.HomeRelative(name),
		Action: DefaultAction,
	}
}

// UnmarshalYAML decodes an entry, applying defaults for absent fields and
// validating the action
func (e *Entry) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Name   string `yaml:"name"`
		Target string `yaml:"target"`
		Action string `yaml:"action"`
	}
	if err := value.Decode(&raw); err != nil {
		return errors.Wrap(err, errors.ErrConfigParse, "malformed manifest entry")
	}

	action, err := ParseAction(raw.Action)
	if err != nil {
		return err
	}

	e.Name = raw.Name
	e.Target = raw.Target
	if e.Target == "" {
		e.Target = paths.HomeRelative(raw.Name)
	}
	e.Action = action

	return e.Validate()
}

// Validate checks the entry invariants
func (e Entry) Validate() error {
	if e.Name == "" {
		return errors.New(errors.ErrConfigInvalid, "manifest entry has an empty name")
	}
	if _, err := ParseAction(string(e.Action)); err != nil {
		return err
	}
	return nil
}

// Manifest is the ordered collection of tracked entries. Order is preserved
// on write for readable version-control diffs; equality ignores it.
type Manifest struct {
	Dotfiles []Entry `yaml:"dotfiles"`
}

// New constructs a manifest from entries, rejecting duplicate names
func New(entries []Entry) (*Manifest, error) {
	m := &Manifest{Dotfiles: entries}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks every entry and rejects duplicate names. Duplicates
// would silently shadow each other on lookup, so they are a hard
// configuration error.
func (m *Manifest) Validate() error {
	seen := make(map[string]struct{}, len(m.Dotfiles))
	for _, e := range m.Dotfiles {
		if err := e.Validate(); err != nil {
			return err
		}
		if _, dup := seen[e.Name]; dup {
			return errors.Newf(errors.ErrConfigInvalid, "duplicate manifest entry %q", e.Name)
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}

// Lookup returns the entry with the given name
func (m *Manifest) Lookup(name string) (Entry, bool) {
	for _, e := range m.Dotfiles {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Equal reports set-equality over entries, ignoring document order and any
// metadata outside the entry sequence
func (m *Manifest) Equal(other *Manifest) bool {
	if len(m.Dotfiles) != len(other.Dotfiles) {
		return false
	}
	set := make(map[Entry]struct{}, len(m.Dotfiles))
	for _, e := range m.Dotfiles {
		set[e] = struct{}{}
	}
	for _, e := range other.Dotfiles {
		if _, ok := set[e]; !ok {
			return false
		}
	}
	return true
}

// LoadReader parses a manifest document. Absence of the top-level dotfiles
// key yields an empty manifest, not an error.
func LoadReader(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to read manifest")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		// Entry-level validation errors already carry a code
		var potErr *errors.PotError
		if stderrors.As(err, &potErr) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse manifest")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads and parses the manifest file at path
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to open manifest %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadReader(f)
}

// WriteTo serializes the manifest, preserving entry order and the
// name/target/action field order
func (m *Manifest) WriteTo(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to serialize manifest")
	}
	return enc.Close()
}

// Save writes the manifest file at path
func (m *Manifest) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "failed to create manifest %s", path)
	}

	if err := m.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write manifest %s", path)
	}
	return nil
}
