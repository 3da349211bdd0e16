// Package ir provides the rule-table and analysis types shared by every
// vyakarana package.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - A RuleTable is immutable once built; accessors hand out copies
//   - Sandhi rule precedence is explicit (category order, then priority),
//     never an accident of map iteration
//   - Positions are counted in Unicode code points, not bytes
//   - All JSON tags use snake_case
package ir
