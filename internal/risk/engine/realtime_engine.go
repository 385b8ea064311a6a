package risk_management

// Note: This file has been split into focused components:
// - realtime_types.go: Type definitions, constants, and data structures
// - realtime_core.go: Main service struct, constructor, and core API methods
// - realtime_processors.go: Business logic processing and type-specific handlers
//
// This split maintains the same functionality while improving maintainability
// and adhering to the 410-line file size limit.

// This file now serves as a reference point for the split components.
// All functionality has been moved to the appropriate specialized files.

