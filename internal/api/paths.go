package api

import "github.com/sheetdesk/sheetdesk/internal/core"

// Endpoint paths are built from the closed kind enums in one place so no
// handler or form carries path fragments as string literals.

func listPath(entity core.EntityKind) string {
	return "/sheet/get/" + string(entity)
}

func createPath(entity core.EntityKind) string {
	return "/sheet/manual/" + string(entity)
}

func updatePath(entity core.EntityKind, id string) string {
	return "/sheet/update/" + string(entity) + "/" + id
}

func bulkPath(sheet core.SheetKind) string {
	return "/sheet/bulk/" + string(sheet)
}

func templatePath(entity core.EntityKind) string {
	return "/sheet/template/" + string(entity)
}
