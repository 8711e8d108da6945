// Package tracestrip removes trace artifacts left behind when content is
// pasted from AI chat tools: tool-specific HTML attributes, tool-generated
// element identifiers, and invisible Unicode characters.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, http/).
package tracestrip
