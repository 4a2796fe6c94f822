// Package domain contains the core model for devkit: repository index and settings,
// Debian control paragraphs, Release rendering and the sync pipeline report.
//
// The domain is transport- and persistence-agnostic: it does not depend on YAML parsing,
// net/http, git or the filesystem. Infra/adapters map into/from these types.
package domain
