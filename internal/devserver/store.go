package devserver

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sheetdesk/sheetdesk/internal/api"
	"github.com/sheetdesk/sheetdesk/internal/core"
)

// Store is the in-memory record store behind the dev server. It keeps one
// collection per registered entity plus the state/district/block reference
// tree, all seeded with a small fixture set.
type Store struct {
	mu      sync.RWMutex
	records map[core.EntityKind][]core.Record
	subs    map[string][]core.Record

	states    []api.Ref
	districts map[string][]api.Ref
	blocks    map[string][]api.Ref
}

// NewStore returns a store pre-seeded with fixture data for every
// registered entity.
func NewStore() *Store {
	s := &Store{
		records:   make(map[core.EntityKind][]core.Record),
		subs:      make(map[string][]core.Record),
		districts: make(map[string][]api.Ref),
		blocks:    make(map[string][]api.Ref),
	}
	s.seed()
	return s
}

// List returns a copy of the collection for an entity.
func (s *Store) List(entity core.EntityKind) []core.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.records[entity]
	out := make([]core.Record, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

// ListSub returns a subresource collection, e.g. batches of the centers.
func (s *Store) ListSub(entity core.EntityKind, sub string) ([]core.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.subs[string(entity)+"/"+sub]
	if !ok {
		return nil, false
	}
	out := make([]core.Record, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out, true
}

// Create builds a record from submitted form fields, assigns a fresh
// primary key, and appends it to the entity's collection.
func (s *Store) Create(def core.EntityDefinition, fields map[string]string) core.Record {
	rec := core.Record{
		def.PrimaryKey:  uuid.NewString(),
		"bEnable":       float64(1),
		"dtCreatedDate": time.Now().UTC().Format(time.RFC3339),
	}
	for _, spec := range def.Fields {
		rec[spec.RecordKey()] = fields[spec.Key]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[def.Kind] = append(s.records[def.Kind], rec)
	return rec.Clone()
}

// Update patches an existing record in place. Submitted field keys are
// translated to record keys through the entity definition; keys outside
// the definition (like bEnable) are applied verbatim.
func (s *Store) Update(def core.EntityDefinition, id string, fields map[string]string) error {
	recordKey := make(map[string]string, len(def.Fields))
	for _, spec := range def.Fields {
		recordKey[spec.Key] = spec.RecordKey()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.records[def.Kind] {
		if rec.String(def.PrimaryKey) != id {
			continue
		}
		for k, v := range fields {
			if rk, ok := recordKey[k]; ok {
				rec[rk] = v
			} else {
				rec[k] = v
			}
		}
		return nil
	}
	return fmt.Errorf("%s %s not found", def.Kind, id)
}

// Append adds already-built records, used by the bulk import path.
func (s *Store) Append(entity core.EntityKind, rows []core.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[entity] = append(s.records[entity], rows...)
}

// States returns the top level of the reference tree.
func (s *Store) States() []api.Ref {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states
}

// Districts returns the districts of one state.
func (s *Store) Districts(stateID string) []api.Ref {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.districts[stateID]
}

// Blocks returns the blocks of one district.
func (s *Store) Blocks(districtID string) []api.Ref {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blocks[districtID]
}

// seed loads a small fixture set so the client has something to browse
// out of the box.
func (s *Store) seed() {
	s.states = []api.Ref{
		{ID: "1", Name: "Karnataka"},
		{ID: "2", Name: "Maharashtra"},
	}
	s.districts["1"] = []api.Ref{
		{ID: "11", Name: "Bengaluru Urban"},
		{ID: "12", Name: "Mysuru"},
	}
	s.districts["2"] = []api.Ref{
		{ID: "21", Name: "Pune"},
	}
	s.blocks["11"] = []api.Ref{
		{ID: "111", Name: "Yelahanka"},
		{ID: "112", Name: "Anekal"},
	}
	s.blocks["12"] = []api.Ref{
		{ID: "121", Name: "Nanjangud"},
	}
	s.blocks["21"] = []api.Ref{
		{ID: "211", Name: "Haveli"},
	}

	s.records[core.EntityTP] = []core.Record{
		{
			"pklTpId": uuid.NewString(), "tpId": "TP-1001", "tpName": "Apex Skills",
			"tpSpocEmail": "spoc@apexskills.example", "tpSpocMobile": "9800000001",
			"tpSpocName": "R. Iyer", "tpSmartId": "SM-01",
			"tpState": "Karnataka", "tpDistrict": "Bengaluru Urban", "tpBlock": "Yelahanka",
			"tpVillage": "Kogilu", "tpAddress": "14 MG Road", "bEnable": float64(1),
		},
		{
			"pklTpId": uuid.NewString(), "tpId": "TP-1002", "tpName": "Bright Future Org",
			"tpSpocEmail": "contact@brightfuture.example", "tpSpocMobile": "9800000002",
			"tpSpocName": "S. Kulkarni", "tpSmartId": "SM-02",
			"tpState": "Maharashtra", "tpDistrict": "Pune", "tpBlock": "Haveli",
			"tpVillage": "Wagholi", "tpAddress": "5 FC Road", "bEnable": float64(1),
		},
	}
	s.records[core.EntityTC] = []core.Record{
		{
			"pklTcId": uuid.NewString(), "tpId": "TP-1001", "tcPatnerCode": "PC-01",
			"tcCenterName": "Apex Center North", "tcCenterId": "TC-2001",
			"tcSpocEmail": "north@apexskills.example", "tcSpocName": "M. Rao",
			"tcSpocMobile": "9800000011", "tcState": "Karnataka",
			"tcDistrict": "Bengaluru Urban", "tcBlock": "Anekal",
			"tcVillage": "Jigani", "tcAddress": "Plot 7", "tcConsituency": "Anekal",
			"tcSmartId": "SM-11", "bEnable": float64(1),
		},
	}
	s.records[core.EntityCourse] = []core.Record{
		{
			"pklCourseId": uuid.NewString(), "dateValidFrom": "2025-04-01",
			"dateValidUpto": "2026-03-31", "sectorName": "Electronics",
			"qpnosCode": "ELE/Q4601", "jobRoleName": "Field Technician",
			"totalTheoryHours": float64(120), "totalPraticalHours": float64(240),
		},
	}
	s.records[core.EntityTarget] = []core.Record{
		{
			"pklTargetId": uuid.NewString(), "sanctionNo": "SAN-881",
			"sanctionDate": "2025-06-15", "schemeCode": "SCH-01",
			"totalTarget": float64(500),
		},
	}
	s.records[core.EntityScheme] = []core.Record{
		{
			"pklSchemeId": uuid.NewString(), "schemeFundingType": "Central",
			"schemeFundingRatio": "60:40", "sanctionOrderNo": "SO-42",
			"dateOfSanction": "2025-01-20", "schemeType": "Placement",
			"fundName": "Skill Fund", "scheme": "Rural Upskilling",
			"schemeCode": "SCH-01",
		},
	}

	s.subs[string(core.EntityTC)+"/batches"] = []core.Record{
		{"batchId": "B-01", "tcCenterId": "TC-2001", "startDate": "2025-07-01", "strength": float64(30)},
	}
}
