package planning

// StrictJSONReminder is appended to the original prompt on the second
// planner call when the first attempt failed to normalize. The caller
// (internal/dispatch) owns the retry loop itself; this package only
// owns the reminder text, since it is the text that makes the retry
// worth attempting at all.
const StrictJSONReminder = `
Your previous response could not be parsed. Reply with a single JSON
object and nothing else: no prose, no markdown fences. It must contain
exactly one of "questions" (an array with exactly one non-empty
question) or "plan" (with non-empty "roadmap", "features", and "tasks"
arrays, each entry carrying a non-empty "title").`
