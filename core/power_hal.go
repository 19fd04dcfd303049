package core

// PowerDriver puts the CPU into its low-power wait. Interrupts stay enabled
// so the next tick, edge or byte ends the wait.
type PowerDriver interface {
	EnterLowPowerWait()
}
