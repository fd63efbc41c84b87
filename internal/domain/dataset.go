package domain

import "time"

// DatasetStatus enumerates fine-tuning lifecycle states for datasets.
type DatasetStatus string

const (
	DatasetStatusPending    DatasetStatus = "pending"
	DatasetStatusProcessing DatasetStatus = "processing"
	DatasetStatusCompleted  DatasetStatus = "completed"
	DatasetStatusFailed     DatasetStatus = "failed"
)

// datasetTransitions mirrors the ticket state machine shape: explicit table,
// failed datasets may be retried.
var datasetTransitions = map[DatasetStatus][]DatasetStatus{
	DatasetStatusPending:    {DatasetStatusProcessing},
	DatasetStatusProcessing: {DatasetStatusCompleted, DatasetStatusFailed},
	DatasetStatusFailed:     {DatasetStatusPending},
	DatasetStatusCompleted:  {},
}

// ValidDatasetStatus reports membership in the closed status set.
func ValidDatasetStatus(s DatasetStatus) bool {
	_, ok := datasetTransitions[s]
	return ok
}

// Dataset is the aggregate for prompt/response fine-tuning records.
type Dataset struct {
	recorder

	ID           string
	OwnerID      string
	PromptText   string
	ResponseText string
	TargetModel  string
	Status       DatasetStatus
	Metadata     map[string]any
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewDataset builds a pending dataset owned by ownerID.
func NewDataset(ownerID, promptText, responseText, targetModel string) *Dataset {
	return &Dataset{
		OwnerID:      ownerID,
		PromptText:   promptText,
		ResponseText: responseText,
		TargetModel:  targetModel,
		Status:       DatasetStatusPending,
	}
}

// ResourceKind implements OwnedResource.
func (d *Dataset) ResourceKind() ResourceKind {
	return KindDataset
}

// OwnedBy implements OwnedResource.
func (d *Dataset) OwnedBy(actorID string) bool {
	return d.OwnerID == actorID
}

// RecordCreation emits the creation event after the id is assigned.
func (d *Dataset) RecordCreation(actorID string) {
	d.record(newEvent(EventDatasetCreated, KindDataset, d.ID, actorID, DatasetCreatedPayload{
		TargetModel: d.TargetModel,
		OwnerID:     d.OwnerID,
	}))
}

// RecordUpdate emits an update event carrying the changed fields.
func (d *Dataset) RecordUpdate(actorID string, changed map[string]any) {
	if len(changed) == 0 {
		return
	}
	d.record(newEvent(EventDatasetUpdated, KindDataset, d.ID, actorID, DatasetUpdatedPayload{ChangedFields: changed}))
}

// RecordDeletion emits the deletion event prior to removal.
func (d *Dataset) RecordDeletion(actorID string) {
	d.record(newEvent(EventDatasetDeleted, KindDataset, d.ID, actorID, nil))
}

// TransitionStatus moves the dataset per the transition table.
func (d *Dataset) TransitionStatus(target DatasetStatus, actorID string) error {
	valid := false
	for _, candidate := range datasetTransitions[d.Status] {
		if candidate == target {
			valid = true
			break
		}
	}
	if !valid {
		return NewInvalidTransition(string(d.Status), string(target))
	}
	old := d.Status
	d.Status = target
	d.record(newEvent(EventDatasetStatusChanged, KindDataset, d.ID, actorID, DatasetStatusChangedPayload{
		OldStatus: old,
		NewStatus: target,
	}))
	return nil
}
