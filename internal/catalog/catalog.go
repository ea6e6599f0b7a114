// Package catalog loads the static game data the rest of the tool is
// built around: awakeners, wheels, posses, covenants, and the in-game
// share-code token table.
//
// Array order in the data files is part of the native share-code wire
// format: wheel, covenant, and posse bytes are 1-based positions into
// these slices. Reordering an entry is a breaking format change and
// requires a code-prefix version bump; the wire-contract golden test
// pins the current order.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/awakeners.yaml
var awakenersYAML []byte

//go:embed data/wheels.yaml
var wheelsYAML []byte

//go:embed data/posses.yaml
var possesYAML []byte

//go:embed data/covenants.yaml
var covenantsYAML []byte

//go:embed data/tokens.yaml
var tokensYAML []byte

type Awakener struct {
	ID      int      `yaml:"id"`
	Name    string   `yaml:"name"`
	Faction string   `yaml:"faction"`
	Aliases []string `yaml:"aliases"`
}

type Wheel struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type Posse struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Index int    `yaml:"index"`
}

type Covenant struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// TokenEntry maps a catalog id to the token the game client uses for it.
type TokenEntry struct {
	ID    string `yaml:"id"`
	Token string `yaml:"token"`
}

// TokenTables holds the raw in-game token table per category. It is
// consumed only by the in-game codec's dictionary builder.
type TokenTables struct {
	Awakeners []TokenEntry `yaml:"awakeners"`
	Wheels    []TokenEntry `yaml:"wheels"`
	Covenants []TokenEntry `yaml:"covenants"`
	Posses    []TokenEntry `yaml:"posses"`
}

type Catalog struct {
	Awakeners []Awakener
	Wheels    []Wheel
	Posses    []Posse
	Covenants []Covenant

	awakenerByID   map[int]*Awakener
	awakenerByName map[string]*Awakener
	wheelByID      map[string]*Wheel
	posseByID      map[string]*Posse
	covenantByID   map[string]*Covenant

	wheelIndexByID    map[string]int
	posseIndexByID    map[string]int
	covenantIndexByID map[string]int

	tokens TokenTables
}

// Load parses the embedded data files and builds all lookup indexes.
func Load() (*Catalog, error) {
	var aw struct {
		Awakeners []Awakener `yaml:"awakeners"`
	}
	if err := yaml.Unmarshal(awakenersYAML, &aw); err != nil {
		return nil, fmt.Errorf("parsing awakeners data: %w", err)
	}
	var wh struct {
		Wheels []Wheel `yaml:"wheels"`
	}
	if err := yaml.Unmarshal(wheelsYAML, &wh); err != nil {
		return nil, fmt.Errorf("parsing wheels data: %w", err)
	}
	var po struct {
		Posses []Posse `yaml:"posses"`
	}
	if err := yaml.Unmarshal(possesYAML, &po); err != nil {
		return nil, fmt.Errorf("parsing posses data: %w", err)
	}
	var co struct {
		Covenants []Covenant `yaml:"covenants"`
	}
	if err := yaml.Unmarshal(covenantsYAML, &co); err != nil {
		return nil, fmt.Errorf("parsing covenants data: %w", err)
	}
	var tokens TokenTables
	if err := yaml.Unmarshal(tokensYAML, &tokens); err != nil {
		return nil, fmt.Errorf("parsing token table: %w", err)
	}

	c := &Catalog{
		Awakeners: aw.Awakeners,
		Wheels:    wh.Wheels,
		Posses:    po.Posses,
		Covenants: co.Covenants,
		tokens:    tokens,
	}
	if err := c.buildIndexes(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) buildIndexes() error {
	c.awakenerByID = make(map[int]*Awakener, len(c.Awakeners))
	c.awakenerByName = make(map[string]*Awakener, len(c.Awakeners))
	for i := range c.Awakeners {
		a := &c.Awakeners[i]
		if a.ID <= 0 || a.ID > 255 {
			return fmt.Errorf("awakener %q: id %d out of byte range", a.Name, a.ID)
		}
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("awakener id %d: name is required", a.ID)
		}
		if strings.TrimSpace(a.Faction) == "" {
			return fmt.Errorf("awakener %q: faction is required", a.Name)
		}
		if _, exists := c.awakenerByID[a.ID]; exists {
			return fmt.Errorf("duplicate awakener id %d", a.ID)
		}
		c.awakenerByID[a.ID] = a
		for _, name := range append([]string{a.Name}, a.Aliases...) {
			key := strings.ToLower(name)
			if _, exists := c.awakenerByName[key]; exists {
				return fmt.Errorf("duplicate awakener name %q", name)
			}
			c.awakenerByName[key] = a
		}
	}

	c.wheelByID = make(map[string]*Wheel, len(c.Wheels))
	c.wheelIndexByID = make(map[string]int, len(c.Wheels))
	for i := range c.Wheels {
		w := &c.Wheels[i]
		if _, exists := c.wheelByID[w.ID]; exists {
			return fmt.Errorf("duplicate wheel id %q", w.ID)
		}
		c.wheelByID[w.ID] = w
		c.wheelIndexByID[w.ID] = i + 1
	}

	c.posseByID = make(map[string]*Posse, len(c.Posses))
	c.posseIndexByID = make(map[string]int, len(c.Posses))
	for i := range c.Posses {
		p := &c.Posses[i]
		if _, exists := c.posseByID[p.ID]; exists {
			return fmt.Errorf("duplicate posse id %q", p.ID)
		}
		c.posseByID[p.ID] = p
		c.posseIndexByID[p.ID] = i + 1
	}

	c.covenantByID = make(map[string]*Covenant, len(c.Covenants))
	c.covenantIndexByID = make(map[string]int, len(c.Covenants))
	for i := range c.Covenants {
		cv := &c.Covenants[i]
		if _, exists := c.covenantByID[cv.ID]; exists {
			return fmt.Errorf("duplicate covenant id %q", cv.ID)
		}
		c.covenantByID[cv.ID] = cv
		c.covenantIndexByID[cv.ID] = i + 1
	}
	return nil
}

// AwakenerByID looks an awakener up by its numeric catalog id.
func (c *Catalog) AwakenerByID(id int) (*Awakener, bool) {
	a, ok := c.awakenerByID[id]
	return a, ok
}

// AwakenerByName looks an awakener up by display name or alias,
// case-insensitively.
func (c *Catalog) AwakenerByName(name string) (*Awakener, bool) {
	a, ok := c.awakenerByName[strings.ToLower(name)]
	return a, ok
}

func (c *Catalog) WheelByID(id string) (*Wheel, bool) {
	w, ok := c.wheelByID[id]
	return w, ok
}

func (c *Catalog) PosseByID(id string) (*Posse, bool) {
	p, ok := c.posseByID[id]
	return p, ok
}

func (c *Catalog) CovenantByID(id string) (*Covenant, bool) {
	cv, ok := c.covenantByID[id]
	return cv, ok
}

// WheelIndex returns the 1-based wire index for a wheel id; 0 means unknown.
func (c *Catalog) WheelIndex(id string) int {
	return c.wheelIndexByID[id]
}

// WheelAt resolves a 1-based wire index back to a wheel.
func (c *Catalog) WheelAt(index int) (*Wheel, bool) {
	if index < 1 || index > len(c.Wheels) {
		return nil, false
	}
	return &c.Wheels[index-1], true
}

// PosseIndex returns the 1-based wire index for a posse id; 0 means unknown.
func (c *Catalog) PosseIndex(id string) int {
	return c.posseIndexByID[id]
}

// PosseAt resolves a 1-based wire index back to a posse.
func (c *Catalog) PosseAt(index int) (*Posse, bool) {
	if index < 1 || index > len(c.Posses) {
		return nil, false
	}
	return &c.Posses[index-1], true
}

// CovenantIndex returns the 1-based wire index for a covenant id; 0 means
// unknown.
func (c *Catalog) CovenantIndex(id string) int {
	return c.covenantIndexByID[id]
}

// CovenantAt resolves a 1-based wire index back to a covenant.
func (c *Catalog) CovenantAt(index int) (*Covenant, bool) {
	if index < 1 || index > len(c.Covenants) {
		return nil, false
	}
	return &c.Covenants[index-1], true
}

// IdentityKey collapses display-name variants of one underlying awakener
// ("ramona" and "ramona: timeworn") to a single key used for uniqueness
// checks. Names outside the catalog still collapse by the variant-suffix
// rule so stale roster data keeps comparing sanely.
func (c *Catalog) IdentityKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if base, _, found := strings.Cut(key, ":"); found {
		key = strings.TrimSpace(base)
	}
	return key
}

// Tokens returns the raw in-game token table.
func (c *Catalog) Tokens() TokenTables {
	return c.tokens
}
