package service

// Deterministic code generation hooks for tests.

func (s *ShipmentService) SetTrackingGen(gen func() string) { s.genTracking = gen }

func (a *CodeAllocator) SetCodeGen(gen func() string) { a.genCode = gen }
