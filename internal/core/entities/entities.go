// Package entities registers the entity definitions with the core registry.
// Import this package to ensure all entities are registered.
package entities

import "github.com/sheetdesk/sheetdesk/internal/core"

func init() {
	registerTP()
	registerTC()
	registerCourse()
	registerTarget()
	registerScheme()
}

func registerTP() {
	core.Register(core.EntityDefinition{
		Kind:       core.EntityTP,
		Label:      "Training Partner",
		Sheet:      core.SheetTP,
		Modal:      core.ModalAddTP,
		PrimaryKey: "pklTpId",
		Fields: []core.FieldSpec{
			{Key: "tpId", Label: "TP ID"},
			{Key: "tpName", Label: "TP Name"},
			{Key: "tpSpocEmail", Label: "TP SPOC Email"},
			{Key: "tpSpocMobile", Label: "TP SPOC Mobile"},
			{Key: "tpSpocName", Label: "TP SPOC Name"},
			{Key: "tpSmartId", Label: "TP Smart ID"},
			{Key: "state", Label: "State", Kind: core.FieldSelect, PayloadKey: "tpState", Lookup: core.LookupState},
			{Key: "district", Label: "District", Kind: core.FieldSelect, PayloadKey: "tpDistrict", Lookup: core.LookupDistrict},
			{Key: "block", Label: "Block", Kind: core.FieldSelect, PayloadKey: "tpBlock", Lookup: core.LookupBlock},
			{Key: "tpVillage", Label: "TP Village"},
			{Key: "tpAddress", Label: "TP Address"},
		},
		Columns: []core.ColumnDef{
			{Key: "tpId", Header: "TP Id", Sortable: true, Hideable: true},
			{Key: "tpName", Header: "Tp Name", Sortable: true, Hideable: true},
			{Key: "tpSpocEmail", Header: "SPOC Email", Sortable: true, Hideable: true},
			{Key: "tpSpocMobile", Header: "SPOC Mobile", Sortable: true, Hideable: true},
			{Key: "tpSpocName", Header: "SPOC Name", Sortable: true, Hideable: true},
			{Key: "tpSmartId", Header: "Smart ID", Sortable: true, Hideable: true},
			{Key: "tpState", Header: "State", Sortable: true, Hideable: true},
			{Key: "tpDistrict", Header: "District", Sortable: true, Hideable: true},
			{Key: "tpBlock", Header: "Block", Sortable: true, Hideable: true},
			{Key: "tpVillage", Header: "Village", Sortable: true, Hideable: true},
			{Key: "tpAddress", Header: "Tp Address", Sortable: true, Hideable: true},
		},
	})
}

func registerTC() {
	core.Register(core.EntityDefinition{
		Kind:       core.EntityTC,
		Label:      "Training Center",
		Sheet:      core.SheetTC,
		Modal:      core.ModalAddTC,
		PrimaryKey: "pklTcId",
		Fields: []core.FieldSpec{
			{Key: "tpId", Label: "TP ID"},
			{Key: "patnerCode", Label: "Patner Code", PayloadKey: "tcPatnerCode"},
			{Key: "centerName", Label: "Center Name", PayloadKey: "tcCenterName"},
			{Key: "centerId", Label: "Center ID", PayloadKey: "tcCenterId"},
			{Key: "spocEmail", Label: "SPOC Email", PayloadKey: "tcSpocEmail"},
			{Key: "spocName", Label: "SPOC Name", PayloadKey: "tcSpocName"},
			{Key: "spocMobile", Label: "SPOC Mobile", PayloadKey: "tcSpocMobile"},
			{Key: "state", Label: "State", Kind: core.FieldSelect, PayloadKey: "tcState", Lookup: core.LookupState},
			{Key: "district", Label: "District", Kind: core.FieldSelect, PayloadKey: "tcDistrict", Lookup: core.LookupDistrict},
			{Key: "block", Label: "Block", Kind: core.FieldSelect, PayloadKey: "tcBlock", Lookup: core.LookupBlock},
			{Key: "village", Label: "Village", PayloadKey: "tcVillage"},
			{Key: "address", Label: "Address", PayloadKey: "tcAddress"},
			{Key: "consituency", Label: "Constituency", PayloadKey: "tcConsituency"},
			{Key: "smartId", Label: "Smart Id", PayloadKey: "tcSmartId"},
		},
		Columns: []core.ColumnDef{
			{Key: "tpId", Header: "TP ID", Sortable: true, Hideable: true},
			{Key: "tcPatnerCode", Header: "Patner Code", Sortable: true, Hideable: true},
			{Key: "tcCenterName", Header: "Center Name", Sortable: true, Hideable: true},
			{Key: "tcCenterId", Header: "Center ID", Sortable: true, Hideable: true},
			{Key: "tcSpocEmail", Header: "SPOC Email", Sortable: true, Hideable: true},
			{Key: "tcSpocName", Header: "SPOC Name", Sortable: true, Hideable: true},
			{Key: "tcState", Header: "State", Sortable: true, Hideable: true},
			{Key: "tcDistrict", Header: "District", Sortable: true, Hideable: true},
			{Key: "tcBlock", Header: "Block", Sortable: true, Hideable: true},
			{Key: "tcVillage", Header: "Village", Sortable: true, Hideable: true},
			{Key: "tcAddress", Header: "Address", Sortable: true, Hideable: true},
			{Key: "tcConsituency", Header: "Constituency", Sortable: true, Hideable: true},
			{Key: "tcSmartId", Header: "Smart Id", Sortable: true, Hideable: true},
		},
	})
}

func registerCourse() {
	core.Register(core.EntityDefinition{
		Kind:       core.EntityCourse,
		Label:      "Course",
		Sheet:      core.SheetCourse,
		Modal:      core.ModalAddCourse,
		PrimaryKey: "pklCourseId",
		Fields: []core.FieldSpec{
			{Key: "dateValidFrom", Label: "Date Valid From", Kind: core.FieldDate},
			{Key: "dateValidUpto", Label: "Date Valid Upto", Kind: core.FieldDate},
			{Key: "sectorName", Label: "Sector Name"},
			{Key: "qpnosCode", Label: "QPNOS Code"},
			{Key: "jobRoleName", Label: "Job Role"},
			{Key: "totalTheoryHours", Label: "Total Theory Hours", Kind: core.FieldNumber},
			{Key: "totalPraticalHours", Label: "Total Pratical Hours", Kind: core.FieldNumber},
		},
		Columns: []core.ColumnDef{
			{Key: "id", Header: "ID", Ordinal: true},
			{Key: "dateValidFrom", Header: "Date Valid From", Format: core.FormatDate, Sortable: true, Hideable: true},
			{Key: "dateValidUpto", Header: "Date valid upto", Format: core.FormatDate, Sortable: true, Hideable: true},
			{Key: "sectorName", Header: "Sector Name", Sortable: true, Hideable: true},
			{Key: "qpnosCode", Header: "QPNOS Code", Sortable: true, Hideable: true},
			{Key: "totalTheoryHours", Header: "Total Theory Hours", Sortable: true, Hideable: true},
			{Key: "totalPraticalHours", Header: "Total Pratical Hours", Sortable: true, Hideable: true},
			{Key: "jobRoleName", Header: "Job Role", Sortable: true, Hideable: true},
		},
	})
}

func registerTarget() {
	core.Register(core.EntityDefinition{
		Kind:       core.EntityTarget,
		Label:      "Target",
		Sheet:      core.SheetTarget,
		Modal:      core.ModalAddTarget,
		PrimaryKey: "pklTargetId",
		Fields: []core.FieldSpec{
			{Key: "sanctionNo", Label: "Sanction No"},
			{Key: "sanctionDate", Label: "Sanction Date", Kind: core.FieldDate},
			{Key: "schemeCode", Label: "Scheme Code"},
			{Key: "totalTarget", Label: "Total Target", Kind: core.FieldNumber},
		},
		Columns: []core.ColumnDef{
			{Key: "id", Header: "ID", Ordinal: true},
			{Key: "sanctionNo", Header: "Sanction No", Sortable: true, Hideable: true},
			{Key: "schemeCode", Header: "Scheme Code", Sortable: true, Hideable: true},
			{Key: "sanctionDate", Header: "Sanction Date", Format: core.FormatDate, Sortable: true, Hideable: true},
			{Key: "totalTarget", Header: "Total Target", Sortable: true, Hideable: true},
		},
	})
}

func registerScheme() {
	core.Register(core.EntityDefinition{
		Kind:       core.EntityScheme,
		Label:      "Scheme",
		Sheet:      core.SheetScheme,
		Modal:      core.ModalAddScheme,
		PrimaryKey: "pklSchemeId",
		Fields: []core.FieldSpec{
			{Key: "schemeFundingType", Label: "Scheme Funding Type"},
			{Key: "schemeFundingRatio", Label: "Scheme Funding Ratio"},
			{Key: "sanctionOrderNo", Label: "Sanction Order No"},
			{Key: "dateOfSanction", Label: "Date Of Sanction", Kind: core.FieldDate},
			{Key: "schemeType", Label: "Scheme Type"},
			{Key: "fundName", Label: "Fund Name"},
			{Key: "scheme", Label: "Scheme"},
			{Key: "schemeCode", Label: "Scheme Code"},
		},
		Columns: []core.ColumnDef{
			{Key: "id", Header: "ID", Ordinal: true},
			{Key: "schemeFundingType", Header: "Funding Type", Sortable: true, Hideable: true},
			{Key: "schemeFundingRatio", Header: "Funding Ratio", Sortable: true, Hideable: true},
			{Key: "sanctionOrderNo", Header: "Sanction Order No", Sortable: true, Hideable: true},
			{Key: "dateOfSanction", Header: "Date Of Sanction", Format: core.FormatDate, Sortable: true, Hideable: true},
			{Key: "schemeType", Header: "Scheme Type", Sortable: true, Hideable: true},
			{Key: "fundName", Header: "Fund Name", Sortable: true, Hideable: true},
			{Key: "scheme", Header: "Scheme", Sortable: true, Hideable: true},
			{Key: "schemeCode", Header: "Scheme Code", Sortable: true, Hideable: true},
		},
	})
}
