package model

// SceneTimeFormat is the layout scene timestamps are rendered with in API
// output. Scene acquisition times are UTC, so the trailing Z is literal.
const SceneTimeFormat = "2006-01-02T15:04:05.999999999Z" // time.RFC3339Nano, without actual Z offset
