package lifecycle

// OrderState is the part of an order the guards look at.
type OrderState struct {
	ID                  int64
	Type                OrderType
	Status              Status
	ResponsibleWorkerID *int64
}

func (o OrderState) IsResponsible(workerID int64) bool {
	return o.ResponsibleWorkerID != nil && *o.ResponsibleWorkerID == workerID
}

func requireActive(o OrderState) error {
	if o.Status.IsTerminal() {
		return Conflict("order %d is %s", o.ID, o.Status)
	}
	return nil
}

func requireStatus(o OrderState, want Status) error {
	if o.Status != want {
		return Conflict("order %d must be %s, is %s", o.ID, want, o.Status)
	}
	return nil
}

// GuardAssign allows (re)assignment only before work starts.
func GuardAssign(o OrderState) error {
	if err := requireActive(o); err != nil {
		return err
	}
	if !CanTransition(o.Status, StatusAssigned) {
		return Conflict("order %d cannot be reassigned once %s", o.ID, o.Status)
	}
	return nil
}

func GuardAssignAreas(o OrderState) error {
	if !o.Type.TracksAreas() {
		return Conflict("order %d is %s and has no areas", o.ID, o.Type)
	}
	if o.Status != StatusPending && o.Status != StatusAssigned {
		return Conflict("areas of order %d cannot change once %s", o.ID, o.Status)
	}
	return nil
}

func GuardStart(o OrderState, assigned bool) error {
	if !assigned {
		return Forbidden("worker is not assigned to order %d", o.ID)
	}
	return requireStatus(o, StatusAssigned)
}

func GuardCompleteArea(o OrderState, assigned bool) error {
	if !o.Type.TracksAreas() {
		return Conflict("order %d is %s and has no areas", o.ID, o.Type)
	}
	if !assigned {
		return Forbidden("worker is not assigned to order %d", o.ID)
	}
	return requireStatus(o, StatusInProgress)
}

// GuardComplete checks responsibility before status so a non-responsible
// worker always learns it is not theirs to complete.
func GuardComplete(o OrderState, workerID int64, areasCompleted bool) error {
	if !o.IsResponsible(workerID) {
		return Forbidden("only the responsible worker can complete order %d", o.ID)
	}
	if err := requireStatus(o, StatusInProgress); err != nil {
		return err
	}
	if o.Type.TracksAreas() && !areasCompleted {
		return Conflict("all areas of order %d must be completed first", o.ID)
	}
	return nil
}

func GuardCancel(o OrderState) error {
	switch o.Status {
	case StatusCompleted:
		return Conflict("order %d is completed and cannot be cancelled", o.ID)
	case StatusCancelled:
		return Conflict("order %d is already cancelled", o.ID)
	}
	if !CanTransition(o.Status, StatusCancelled) {
		return Conflict("order %d cannot be cancelled from %s", o.ID, o.Status)
	}
	return nil
}

func GuardEdit(o OrderState) error {
	return requireActive(o)
}

func GuardCreateReport(o OrderState, assigned bool) error {
	if !o.Type.TracksDailyReports() {
		return Conflict("order %d is %s and takes no daily reports", o.ID, o.Type)
	}
	if !assigned {
		return Forbidden("worker is not assigned to order %d", o.ID)
	}
	return requireStatus(o, StatusInProgress)
}

// GuardSatelliteWrite rejects edits to reports or photos of a terminal order.
func GuardSatelliteWrite(o OrderState) error {
	return requireActive(o)
}

// GuardAdmitPhoto checks one admission against the ceiling of the order type.
// existing is the count already persisted in the admission scope.
func GuardAdmitPhoto(o OrderState, assigned bool, existing int) error {
	if !assigned {
		return Forbidden("worker is not assigned to order %d", o.ID)
	}
	if err := requireStatus(o, StatusInProgress); err != nil {
		return err
	}
	if ceiling := o.Type.PhotoCeiling(); existing >= ceiling {
		return Conflict("photo limit of %d reached", ceiling)
	}
	return nil
}
