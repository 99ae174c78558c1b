package wizard

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vibelink-events/vibelink-api/catalog"
)

var (
	ErrStepLocked    = errors.New("wizard: step is locked until earlier steps are complete")
	ErrInvalidStep   = errors.New("wizard: step out of range")
	ErrTooManyImages = errors.New("wizard: reference image limit reached")
)

// Wizard holds a draft order and the step the customer is on
type Wizard struct {
	ID          string        `json:"id"`
	CurrentStep Step          `json:"current_step"`
	FormData    OrderFormData `json:"form_data"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// New starts a wizard on the first step with an empty form
func New(id string) *Wizard {
	return &Wizard{
		ID:          id,
		CurrentStep: FirstStep,
		FormData:    NewFormData(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func (w *Wizard) touch() {
	w.UpdatedAt = time.Now().UTC()
}

// UpdateFormData merges a partial update into the form. No validation happens here.
func (w *Wizard) UpdateFormData(patch FormPatch) {
	patch.apply(&w.FormData)
	if patch.ColorPalette != nil {
		var customColors []string
		if patch.CustomColors != nil {
			customColors = *patch.CustomColors
		}
		w.SetColorPalette(*patch.ColorPalette, customColors)
	}
	w.touch()
}

// NextStep advances one step once every step up to the current one is complete.
// On the last step it stays put.
func (w *Wizard) NextStep() (Step, error) {
	if w.CurrentStep >= LastStep {
		return w.CurrentStep, nil
	}
	if err := w.GoToStep(w.CurrentStep + 1); err != nil {
		return w.CurrentStep, err
	}
	return w.CurrentStep, nil
}

// PrevStep goes back one step, staying on the first step
func (w *Wizard) PrevStep() Step {
	if w.CurrentStep > FirstStep {
		w.CurrentStep--
		w.touch()
	}
	return w.CurrentStep
}

// CanGoToStep reports whether step n is reachable: earlier steps are always
// reachable, later ones only when every step before n is complete.
func (w *Wizard) CanGoToStep(n Step) bool {
	if !n.Valid() {
		return false
	}
	if n <= w.CurrentStep {
		return true
	}
	for s := FirstStep; s < n; s++ {
		if !w.FormData.IsStepComplete(s) {
			return false
		}
	}
	return true
}

// GoToStep jumps to step n when it is reachable
func (w *Wizard) GoToStep(n Step) error {
	if !n.Valid() {
		return ErrInvalidStep
	}
	if !w.CanGoToStep(n) {
		return ErrStepLocked
	}
	w.CurrentStep = n
	w.touch()
	return nil
}

// SetColorPalette picks a palette. Custom colours are only kept for the custom palette.
func (w *Wizard) SetColorPalette(id string, customColors []string) {
	if id == catalog.CustomPaletteID && customColors != nil {
		w.FormData.CustomColors = append([]string{}, customColors...)
	}
	w.FormData.setPalette(id)
	w.touch()
}

// ToggleAddOn adds the add-on when absent and removes it when present
func (w *Wizard) ToggleAddOn(id string) bool {
	for i, existing := range w.FormData.SelectedAddOns {
		if existing == id {
			w.FormData.SelectedAddOns = append(w.FormData.SelectedAddOns[:i:i], w.FormData.SelectedAddOns[i+1:]...)
			w.touch()
			return false
		}
	}
	w.FormData.SelectedAddOns = append(w.FormData.SelectedAddOns, id)
	w.touch()
	return true
}

// AddReferenceImage records an uploaded inspiration image URL
func (w *Wizard) AddReferenceImage(url string) error {
	if len(w.FormData.ReferenceImages) >= MaxReferenceImages {
		return ErrTooManyImages
	}
	w.FormData.ReferenceImages = append(w.FormData.ReferenceImages, url)
	w.touch()
	return nil
}

// RemoveReferenceImage drops an image URL, reporting whether it was present
func (w *Wizard) RemoveReferenceImage(url string) bool {
	for i, existing := range w.FormData.ReferenceImages {
		if existing == url {
			w.FormData.ReferenceImages = append(w.FormData.ReferenceImages[:i:i], w.FormData.ReferenceImages[i+1:]...)
			w.touch()
			return true
		}
	}
	return false
}

// Total is the current price of the draft
func (w *Wizard) Total() decimal.Decimal {
	return w.FormData.Quote().Total
}

// ValidateForSubmission runs every step validator over the normalized form
func (w *Wizard) ValidateForSubmission() error {
	return w.FormData.Normalized().Validate()
}

// Progress summarises per-step completion and reachability
type Progress struct {
	CurrentStep    Step        `json:"current_step"`
	StepName       string      `json:"step_name"`
	CompletedSteps []Step      `json:"completed_steps"`
	ReachableSteps []Step      `json:"reachable_steps"`
	StepErrors     FieldErrors `json:"step_errors,omitempty"`
}

// Progress reports the wizard's position and validation state for the current step
func (w *Wizard) Progress() Progress {
	p := Progress{
		CurrentStep:    w.CurrentStep,
		StepName:       w.CurrentStep.Name(),
		CompletedSteps: []Step{},
		ReachableSteps: []Step{},
	}
	for s := FirstStep; s <= LastStep; s++ {
		if w.FormData.IsStepComplete(s) {
			p.CompletedSteps = append(p.CompletedSteps, s)
		}
		if w.CanGoToStep(s) {
			p.ReachableSteps = append(p.ReachableSteps, s)
		}
	}
	if w.FormData.IsStepComplete(w.CurrentStep) {
		if errs := w.FormData.ValidateStep(w.CurrentStep); len(errs) > 0 {
			p.StepErrors = errs
		}
	}
	return p
}
