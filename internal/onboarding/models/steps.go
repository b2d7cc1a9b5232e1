package models

// Step indexes. Step 0 is shared; the rest diverge by branch and each branch
// ends on its account step.
const (
	StepIntent = 0

	SeekingStepLocation  = 1
	SeekingStepCareNeeds = 2
	SeekingStepSchedule  = 3
	SeekingStepFamily    = 4
	SeekingStepAccount   = 5

	ProvidingStepAbout        = 1
	ProvidingStepExperience   = 2
	ProvidingStepAvailability = 3
	ProvidingStepSkills       = 4
	ProvidingStepBio          = 5
	ProvidingStepAccount      = 6
)

// LastStep returns the final (account) step of the intent's branch. With no
// branch selected only the intent step is reachable.
func LastStep(intent Intent) int {
	switch intent {
	case IntentSeeking:
		return SeekingStepAccount
	case IntentProviding:
		return ProvidingStepAccount
	default:
		return StepIntent
	}
}

// StepName labels a step for logs and clients.
func StepName(intent Intent, step int) string {
	if step == StepIntent {
		return "intent"
	}
	var names []string
	switch intent {
	case IntentSeeking:
		names = []string{"intent", "location", "care_needs", "schedule", "family", "account"}
	case IntentProviding:
		names = []string{"intent", "about", "experience", "availability", "skills", "bio", "account"}
	}
	if step < 0 || step >= len(names) {
		return "unknown"
	}
	return names[step]
}
