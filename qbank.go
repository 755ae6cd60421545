// Package qbank turns loosely structured source documents into a
// normalized catalog of questions grouped into numbered categories,
// and layers per-user favorite and completion state on top of the
// catalog.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., sqlite/,
// etree/) or their concern (markdown/, ingest/).
package qbank
