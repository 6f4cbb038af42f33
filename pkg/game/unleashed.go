package game

func init() {
	Register(&Profile{
		Name: "unleashed-recomp",
		ProcessNames: []string{
			"UnleashedRecomp.exe",
			"UnleashedRecomp",
		},
		Paths: Paths{
			LoadingState: []uint32{0x833678A0, 0x4, 0xE0, 0x13C},
			StuckLoading: []uint32{0x83367A4C},
			Stage:        []uint32{0x83367900, 0x8, 0xAC, 0x0},
			Clock:        []uint32{0x83367900, 0x8, 0x5C},
		},
		// Loading state 2 shows up during some in-stage transitions
		// that do not stop the clock.
		LoadingSentinel: 2,

		// Start, split and reset conditions for this title are still
		// being mapped out; until then the timer is driven manually
		// and the runtime only handles load removal and game time.
		ShouldStart: nil,
		ShouldSplit: nil,
		ShouldReset: nil,
	})
}
