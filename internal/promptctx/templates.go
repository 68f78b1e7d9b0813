package promptctx

// ClarificationTemplate is rendered when a planning task's stage is
// anything other than "final": not enough required coverage exists yet
// for a confident plan.
const ClarificationTemplate = `You are helping scope a software project.

Goal: $goal

Known context:
  Ideal customer profile: $icp
  Tech stack: $techStack
  Constraints: $constraints
  Core features: $coreFeatures

Answered so far:
$answeredClarifications

$note

If you still need one more fact before you can produce a full plan,
respond with exactly: {"questions": ["<your single question>"]}

If you already have enough to propose a plan, respond with exactly:
{"plan": {"roadmap": [...], "features": [...], "tasks": [...]}}`

// FinalPlanningTemplate is rendered when readiness has determined
// required coverage is complete (or finalize_scope forced it).
const FinalPlanningTemplate = `You are producing a final project plan.

Goal: $goal

Context:
  Ideal customer profile: $icp
  Tech stack: $techStack
  Constraints: $constraints
  Core features: $coreFeatures

Answered clarifications:
$answeredClarifications

$note

Respond with exactly one JSON object:
{"plan": {"roadmap": [{"title": "..."}],
          "features": [{"title": "..."}],
          "tasks": [{"title": "...", "role": "..."}],
          "rationale": "..."}}`
