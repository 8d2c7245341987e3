// Package board keeps the activity board view in sync with the backend.
//
// The view is made of four elements, each reached through its own handle:
//
//   - ActivitiesList: the cards, one per activity (element "activities-list")
//   - ActivitySelect: the selectable list of activities (element "activity")
//   - SignupForm: the email and activity fields (element "signup-form")
//   - MessageArea: the transient status message (element "message")
//
// Page implements all four handles in memory. The handles are wired once and
// passed to the two routines that drive the view. A Page shared by many
// visitors keeps one activity list for all of them while each visitor's
// submission goes through its own Form (SignupHandler.SubmitForm).
//
//   - Loader fetches the activity collection and rebuilds the cards and the
//     select options from it. Each run fully replaces what was shown before.
//   - SignupHandler submits the form, shows a status message that hides
//     itself after a fixed delay, and runs the Loader again on success.
//
// # Hide timers
//
// Every message schedules its own hide timer and timers are never cancelled.
// A timer left over from an earlier message can therefore hide a newer one
// before its own delay has passed. Form logs a warning when that happens.
//
// # Example
//
//	page := board.NewPage(logger)
//	loader := board.NewLoader(client, page, page, board.WithLoaderLogger(logger))
//	signup := board.NewSignupHandler(client, page, page, loader)
//
//	_ = loader.Load(ctx)
//	page.SetValues("jane.doe@example.com", "Chess Club")
//	outcome := signup.Submit(ctx)
//
// Serving several visitors from the same page:
//
//	form := board.NewForm(logger)
//	form.SetValues(email, activityName)
//	outcome := signup.SubmitForm(ctx, form, form)
//	view := page.Snapshot().WithForm(form.State())
package board
