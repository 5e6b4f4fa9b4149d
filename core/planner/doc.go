// Package planner implements the weekly bucket-fill scheduling engine.
// Jobs are classified by urgency, grouped by territory, clustered into
// small batches of nearby visits and filled into AM/PM session budgets
// in priority order. Dirty input never aborts a run: malformed fields
// degrade to safe defaults and unplaced jobs stay in the backlog.
package planner
