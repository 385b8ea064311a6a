package risk_management

// Note: This file has been split into focused components:
// - types.go: Type definitions, constants, and data structures
// - core_service.go: Main service struct and public API methods
// - batch_processor.go: Batch processing operations for performance
// - market_processor.go: Market data processing and circuit breakers
//
// This split maintains the same functionality while improving maintainability
// and adhering to the 410-line file size limit.

// This file now serves as a reference point for the split components.
// All functionality has been moved to the appropriate specialized files.
