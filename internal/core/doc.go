// Package core provides the business logic for bulk import and export of job applications.
//
// This package is the heart of the job tracker's import/export pipeline,
// containing all domain logic independent of any transport. It is used by the
// HTTP server, the CLI and tests without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Repository: the backend collection, reached over REST (package backend)
//     or directly in PostgreSQL (package store).
//   - Normalizer: turns loosely formatted CSV rows or JSON objects into
//     creation payloads, dropping records without company, role or a known status.
//   - Importer: submits payloads one at a time, counting rejected creates as skipped.
//   - Service: the entry point for imports, previews and exports.
//
// # Import
//
// An import never partially parses: the whole file is read (through
// [WrapForStreaming], which enforces the size limit, skips a BOM and repairs
// invalid UTF-8), parsed and normalized before anything is submitted. The flow is:
//
//  1. Client calls [Service.Import] with an io.Reader
//  2. Headers (or JSON keys) are resolved through bilingual aliases, see [FieldSpecs]
//  3. Rows are normalized; dropped rows are explained by [Service.Preview]
//  4. Payloads are created sequentially; progress is reported per payload
//
// Once submission starts the batch runs to completion even if the caller's
// context is cancelled.
//
// # Export
//
// [Service.Export] drains every page of the collection with [FetchAll] and
// renders it as CSV in canonical column order or as a versioned JSON backup
// document that imports back unchanged.
//
// # Concurrency
//
// Only one import or export runs at a time. A competing call fails
// immediately with [ErrBusy].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - IMP001-IMP003: Import errors (format, size, missing file)
//   - EXP001: Nothing to export
//   - OPS001-OPS003: Operation errors (busy, timeout, cancelled)
//   - API001-API004: Backend errors (credentials, not found, rejected, unavailable)
package core
