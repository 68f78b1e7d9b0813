package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// contentID hashes value's canonical JSON form and returns
// "prefix-<first 12 hex chars of sha256>". value is round-tripped
// through encoding/json into generic maps/slices first so struct field
// order never leaks into the hash — only stableJSON's sorted key order
// does.
func contentID(prefix string, value any) string {
	generic, err := toGeneric(value)
	if err != nil {
		// value is always one of this package's own types; a failure
		// here means a non-serializable field was added without updating
		// this path.
		panic("state: contentID: " + err.Error())
	}
	sum := sha256.Sum256([]byte(stableJSON(generic)))
	return prefix + "-" + hex.EncodeToString(sum[:])[:12]
}

func toGeneric(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return generic, nil
}

// clarificationID derives a ClarificationRecord's id from its questions
// and creation time, per the deterministic-id rule in the data model.
func clarificationID(questions []string, createdAt any) string {
	return contentID("clarification", map[string]any{
		"questions": questions,
		"createdAt": createdAt,
	})
}

// planID derives a PlanSnapshot's id from its normalized content only —
// not createdAt, and not the per-entry IDs, which the normalizer may
// have generated fresh — so re-normalizing identical plan content
// always collapses to the same snapshot.
func planID(roadmap []Milestone, features []Feature, tasks []ExecutionTaskDef, rationale string) string {
	strippedRoadmap := make([]any, len(roadmap))
	for i, m := range roadmap {
		strippedRoadmap[i] = map[string]any{"title": m.Title, "description": m.Description, "targetDate": m.TargetDate}
	}
	strippedFeatures := make([]any, len(features))
	for i, f := range features {
		strippedFeatures[i] = map[string]any{"title": f.Title, "description": f.Description, "dependencies": f.Dependencies, "owners": f.Owners}
	}
	strippedTasks := make([]any, len(tasks))
	for i, t := range tasks {
		strippedTasks[i] = map[string]any{"title": t.Title, "description": t.Description, "role": t.Role, "dependsOn": t.DependsOn, "payload": t.Payload}
	}
	return contentID("plan", map[string]any{
		"roadmap":   strippedRoadmap,
		"features":  strippedFeatures,
		"tasks":     strippedTasks,
		"rationale": rationale,
	})
}

// discussionID derives a DiscussionEntry's id from its full content,
// including timestamp, so identical repeated appends at different
// instants are treated as distinct events.
func discussionID(entryType DiscussionType, message string, timestamp any, metadata map[string]any) string {
	return contentID("discussion", map[string]any{
		"type":      entryType,
		"message":   message,
		"timestamp": timestamp,
		"metadata":  metadata,
	})
}

// approvalID derives an ApprovalRequest's id from its type, target, and
// request time.
func approvalID(approvalType ApprovalType, planID string, taskIDs []string, requestedAt any) string {
	return contentID("approval", map[string]any{
		"type":        approvalType,
		"planId":      planID,
		"taskIds":     taskIDs,
		"requestedAt": requestedAt,
	})
}
