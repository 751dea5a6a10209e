package alert

// AlarmModel selects the status vocabulary of the alerting system.
type AlarmModel string

const (
	// AlarmModelAlerta is the native alerta alarm model.
	AlarmModelAlerta AlarmModel = "ALERTA"
	// AlarmModelISA182 is the ISA-18.2 alarm model.
	AlarmModelISA182 AlarmModel = "ISA_18_2"
)

// SuppressedStatus returns the status used for alerts muted by a blackout.
// Every model other than ALERTA follows ISA-18.2 and uses OOSRV.
func (m AlarmModel) SuppressedStatus() Status {
	if m == AlarmModelAlerta {
		return StatusBlackout
	}

	return StatusOutOfService
}
