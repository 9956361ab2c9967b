package cpu

// Quirks selects between the documented behavior variants of historical
// CHIP-8 interpreters. Every field maps to exactly one branch in the executor.
type Quirks struct {
	// ShiftUsesVY makes 8XY6 and 8XYE shift VY into VX instead of shifting VX in place.
	ShiftUsesVY bool
	// JumpWithOffsetUsesVX makes BNNN jump to NNN+VX, X being the high nibble of NNN,
	// instead of NNN+V0.
	JumpWithOffsetUsesVX bool
	// LoadStoreIncrementsIndex makes FX55 and FX65 leave I pointing after the
	// last accessed byte (I += X+1).
	LoadStoreIncrementsIndex bool
	// ResetVFOnLogicOps makes 8XY1, 8XY2 and 8XY3 set VF to 0.
	ResetVFOnLogicOps bool
	// WaitForKeyRelease makes FX0A complete only once the pressed key is released,
	// instead of completing as soon as any key is down.
	WaitForKeyRelease bool
}

// DefaultQuirks returns the quirk configuration used when none is given.
// It follows the CHIP-48/SCHIP lineage that most contemporary ROMs are tested
// against, with the index increment of the original COSMAC VIP interpreter.
func DefaultQuirks() Quirks {
	return Quirks{
		ShiftUsesVY:              false,
		JumpWithOffsetUsesVX:     false,
		LoadStoreIncrementsIndex: true,
		ResetVFOnLogicOps:        false,
		WaitForKeyRelease:        false,
	}
}

// VIPQuirks returns the behavior of the original COSMAC VIP interpreter.
func VIPQuirks() Quirks {
	return Quirks{
		ShiftUsesVY:              true,
		JumpWithOffsetUsesVX:     false,
		LoadStoreIncrementsIndex: true,
		ResetVFOnLogicOps:        true,
		WaitForKeyRelease:        true,
	}
}

// SCHIPQuirks returns the behavior of the SUPER-CHIP 1.1 interpreter.
func SCHIPQuirks() Quirks {
	return Quirks{
		ShiftUsesVY:              false,
		JumpWithOffsetUsesVX:     true,
		LoadStoreIncrementsIndex: false,
		ResetVFOnLogicOps:        false,
		WaitForKeyRelease:        false,
	}
}
