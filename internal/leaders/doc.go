// Package leaders loads the all-time leader boards, one CSV per stat
// category.
package leaders
