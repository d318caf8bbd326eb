// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"sort"

	"github.com/onosproject/onos-lib-go/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Link roles
const (
	RoleCenter1      = "1,c"
	RoleCenter2      = "2,c"
	RoleFar          = "f"
	RoleInterference = "i,c"
	RoleRISFar       = "ris,f"
	RoleRISBlock1    = "ris,b1"
	RoleRISBlock2    = "ris,b2"
	RoleNoLink       = "dne"
)

// IsRISRole reports whether the role names a sub-link through the surface
func IsRISRole(role string) bool {
	return role == RoleRISFar || role == RoleRISBlock1 || role == RoleRISBlock2
}

// Preset is a named scenario variant
type Preset struct {
	RISEnhanced bool
	RISElements int
	Comp        bool
	// BS1FarLink and BS2FarLink disable the direct link to the far user when false
	BS1FarLink bool
	BS2FarLink bool
}

// Presets scenario variants selectable through the settings key
var Presets = map[string]Preset{
	"ris32":           {RISEnhanced: true, RISElements: 32, Comp: true, BS1FarLink: true, BS2FarLink: true},
	"ris70":           {RISEnhanced: true, RISElements: 70, Comp: true, BS1FarLink: true, BS2FarLink: true},
	"no_ris":          {RISEnhanced: false, Comp: true, BS1FarLink: true, BS2FarLink: true},
	"no_ris_non_comp": {RISEnhanced: false, Comp: false, BS1FarLink: true, BS2FarLink: true},
	"bs1_only":        {RISEnhanced: true, Comp: true, BS1FarLink: true, BS2FarLink: false},
	"bs2_only":        {RISEnhanced: true, Comp: true, BS1FarLink: false, BS2FarLink: true},
	"none":            {RISEnhanced: true, Comp: true, BS1FarLink: false, BS2FarLink: false},
}

// PresetNames returns the sorted preset names
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplySettings rewrites the model according to its settings preset, if any
func (m *Model) ApplySettings() error {
	if m.Settings == "" {
		return nil
	}
	preset, ok := Presets[m.Settings]
	if !ok {
		return errors.New(errors.Invalid, "unknown settings preset %s", m.Settings)
	}
	log.Infof("Applying settings preset %s", m.Settings)
	m.Comp = preset.Comp

	if !preset.RISEnhanced {
		if m.RIS != nil {
			links := m.Links[:0]
			for _, l := range m.Links {
				if l.Tx != m.RIS.Name && l.Rx != m.RIS.Name {
					links = append(links, l)
				}
			}
			m.Links = links
		}
		m.RIS = nil
	} else if m.RIS != nil && preset.RISElements > 0 {
		m.RIS.Elements = preset.RISElements
		m.RIS.Assignment = nil
		for i := range m.Links {
			if IsRISRole(m.Links[i].Role) {
				m.Links[i].Elements = 0
			}
		}
	}

	if len(m.Transmitters) == 2 {
		far := [2]bool{preset.BS1FarLink, preset.BS2FarLink}
		for i := range m.Links {
			for k, tx := range m.Transmitters {
				if m.Links[i].Tx == tx.Name && m.Links[i].Role == RoleFar && !far[k] {
					m.Links[i].Role = RoleNoLink
				}
			}
		}
	}
	return nil
}
