// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

// Package worldfile loads authored world content from YAML documents,
// validates it, and seeds it into the database.
package worldfile

import (
	"gopkg.in/yaml.v3"

	"github.com/samber/oops"

	"github.com/derelict-game/derelict/internal/engine"
	"github.com/derelict-game/derelict/internal/world"
)

// Document is the root of a world YAML file.
type Document struct {
	Rooms []RoomDef `yaml:"rooms" json:"rooms" jsonschema:"required"`
	Items []ItemDef `yaml:"items,omitempty" json:"items,omitempty"`
	Flags []FlagDef `yaml:"flags,omitempty" json:"flags,omitempty"`
	Links []LinkDef `yaml:"links,omitempty" json:"links,omitempty"`
}

// RoomDef defines a room and the objects placed in it, in authored order.
type RoomDef struct {
	ID          string      `yaml:"id" json:"id" jsonschema:"required"`
	Name        string      `yaml:"name" json:"name" jsonschema:"required"`
	Description string      `yaml:"description" json:"description" jsonschema:"required"`
	Objects     []ObjectDef `yaml:"objects,omitempty" json:"objects,omitempty"`
}

// ObjectDef defines an interactable object.
type ObjectDef struct {
	ID           string           `yaml:"id" json:"id" jsonschema:"required"`
	Name         string           `yaml:"name" json:"name" jsonschema:"required"`
	Description  string           `yaml:"description" json:"description" jsonschema:"required"`
	Synonyms     []string         `yaml:"synonyms,omitempty" json:"synonyms,omitempty"`
	Interactions []InteractionDef `yaml:"interactions,omitempty" json:"interactions,omitempty"`
}

// InteractionDef defines an authored (object, verb) behavior. All fields
// except verb are optional; an omitted field means no effect of that kind.
type InteractionDef struct {
	Verb            string `yaml:"verb" json:"verb" jsonschema:"required"`
	Link            string `yaml:"link,omitempty" json:"link,omitempty"`
	GrantsItem      string `yaml:"grants_item,omitempty" json:"grants_item,omitempty"`
	TriggersFlag    string `yaml:"triggers_flag,omitempty" json:"triggers_flag,omitempty"`
	RequiredItem    string `yaml:"required_item,omitempty" json:"required_item,omitempty"`
	RequiredFlag    string `yaml:"required_flag,omitempty" json:"required_flag,omitempty"`
	ResultText      string `yaml:"result_text,omitempty" json:"result_text,omitempty"`
	ItemUsageText   string `yaml:"item_usage_text,omitempty" json:"item_usage_text,omitempty"`
	AlreadyDoneText string `yaml:"already_done_text,omitempty" json:"already_done_text,omitempty"`
	UnmetText       string `yaml:"unmet_text,omitempty" json:"unmet_text,omitempty"`
}

// ItemDef defines a grantable inventory item.
type ItemDef struct {
	ID          string `yaml:"id" json:"id" jsonschema:"required"`
	Name        string `yaml:"name" json:"name" jsonschema:"required"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// FlagDef defines a story flag.
type FlagDef struct {
	ID   string `yaml:"id" json:"id" jsonschema:"required"`
	Name string `yaml:"name" json:"name" jsonschema:"required"`
}

// LinkDef defines a one-way connection between rooms.
type LinkDef struct {
	ID         string `yaml:"id" json:"id" jsonschema:"required"`
	ToRoom     string `yaml:"to_room" json:"to_room" jsonschema:"required"`
	TravelText string `yaml:"travel_text" json:"travel_text" jsonschema:"required"`
}

// Parse parses and validates a world YAML document.
func Parse(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, oops.Code("WORLD_FILE_EMPTY").Errorf("world file is empty")
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, oops.Code("WORLD_FILE_INVALID").Wrap(err)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks structural constraints and referential integrity: unique
// IDs, phrase uniqueness within each room, links pointing at real rooms,
// interactions referencing real items, flags, and links, and verbs drawn
// from the recognized set.
func (d *Document) Validate() error {
	if len(d.Rooms) == 0 {
		return oops.Code("WORLD_FILE_INVALID").Errorf("world must define at least one room")
	}

	rooms := make(map[string]struct{}, len(d.Rooms))
	items := make(map[string]struct{}, len(d.Items))
	flags := make(map[string]struct{}, len(d.Flags))
	links := make(map[string]struct{}, len(d.Links))
	objects := make(map[string]struct{})

	for _, it := range d.Items {
		m := world.Item{ID: it.ID, Name: it.Name, Description: it.Description}
		if err := m.Validate(); err != nil {
			return err
		}
		if _, dup := items[it.ID]; dup {
			return dupErr("item", it.ID)
		}
		items[it.ID] = struct{}{}
	}
	for _, f := range d.Flags {
		m := world.StoryFlag{ID: f.ID, Name: f.Name}
		if err := m.Validate(); err != nil {
			return err
		}
		if _, dup := flags[f.ID]; dup {
			return dupErr("flag", f.ID)
		}
		flags[f.ID] = struct{}{}
	}
	for _, r := range d.Rooms {
		if _, dup := rooms[r.ID]; dup {
			return dupErr("room", r.ID)
		}
		rooms[r.ID] = struct{}{}
	}
	for _, l := range d.Links {
		m := world.Link{ID: l.ID, ToRoomID: l.ToRoom, TravelText: l.TravelText}
		if err := m.Validate(); err != nil {
			return err
		}
		if _, dup := links[l.ID]; dup {
			return dupErr("link", l.ID)
		}
		if _, ok := rooms[l.ToRoom]; !ok {
			return refErr("link", l.ID, "room", l.ToRoom)
		}
		links[l.ID] = struct{}{}
	}

	knownVerbs := make(map[string]struct{})
	for _, v := range engine.Verbs() {
		knownVerbs[v] = struct{}{}
	}

	for _, r := range d.Rooms {
		m := world.Room{ID: r.ID, Name: r.Name, Description: r.Description}
		if err := m.Validate(); err != nil {
			return err
		}

		// Primary names and synonyms share one namespace per room.
		phrases := make(map[string]string)
		for _, o := range r.Objects {
			om := world.Object{
				ID: o.ID, RoomID: r.ID, Name: o.Name,
				Description: o.Description, Synonyms: o.Synonyms,
			}
			if err := om.Validate(); err != nil {
				return err
			}
			if _, dup := objects[o.ID]; dup {
				return dupErr("object", o.ID)
			}
			objects[o.ID] = struct{}{}

			for _, phrase := range om.Phrases() {
				if other, dup := phrases[phrase]; dup && other != o.ID {
					return oops.Code("WORLD_FILE_INVALID").
						With("room", r.ID).With("phrase", phrase).
						Errorf("phrase %q resolves to both %s and %s in room %s", phrase, other, o.ID, r.ID)
				}
				phrases[phrase] = o.ID
			}

			seen := make(map[string]struct{}, len(o.Interactions))
			for _, in := range o.Interactions {
				if _, ok := knownVerbs[in.Verb]; !ok {
					return oops.Code("WORLD_FILE_INVALID").
						With("object", o.ID).With("verb", in.Verb).
						Errorf("interaction on %s uses unrecognized verb %q", o.ID, in.Verb)
				}
				if _, dup := seen[in.Verb]; dup {
					return oops.Code("WORLD_FILE_INVALID").
						With("object", o.ID).With("verb", in.Verb).
						Errorf("object %s has more than one %s interaction", o.ID, in.Verb)
				}
				seen[in.Verb] = struct{}{}

				if err := checkRef(in.Link, links, "interaction", o.ID+"/"+in.Verb, "link"); err != nil {
					return err
				}
				if err := checkRef(in.GrantsItem, items, "interaction", o.ID+"/"+in.Verb, "item"); err != nil {
					return err
				}
				if err := checkRef(in.RequiredItem, items, "interaction", o.ID+"/"+in.Verb, "item"); err != nil {
					return err
				}
				if err := checkRef(in.TriggersFlag, flags, "interaction", o.ID+"/"+in.Verb, "flag"); err != nil {
					return err
				}
				if err := checkRef(in.RequiredFlag, flags, "interaction", o.ID+"/"+in.Verb, "flag"); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// Room returns the room definition with the given ID, or nil.
func (d *Document) Room(id string) *RoomDef {
	for i := range d.Rooms {
		if d.Rooms[i].ID == id {
			return &d.Rooms[i]
		}
	}
	return nil
}

func dupErr(kind, id string) error {
	return oops.Code("WORLD_FILE_INVALID").
		With("kind", kind).With("id", id).
		Errorf("duplicate %s ID %q", kind, id)
}

func refErr(kind, id, targetKind, targetID string) error {
	return oops.Code("WORLD_FILE_INVALID").
		With("kind", kind).With("id", id).
		Errorf("%s %s references unknown %s %q", kind, id, targetKind, targetID)
}

func checkRef(id string, known map[string]struct{}, kind, owner, targetKind string) error {
	if id == "" {
		return nil
	}
	if _, ok := known[id]; !ok {
		return refErr(kind, owner, targetKind, id)
	}
	return nil
}
