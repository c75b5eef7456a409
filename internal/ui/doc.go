// Package ui is perch's Bubble Tea front end. It hosts the navigation
// menu, the show-read toggle, the subscribe and manage-feeds dialogs, and the
// entry list the menu's links route to.
package ui
