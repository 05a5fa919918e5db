// Package labeler implements the batch that classifies unlabeled inbox mail and
// applies one category label per message.
//
// A Runner moves through Idle -> Running -> {Completed, BudgetExpired, Failed}.
// The elapsed wall-clock time and the context are checked before every thread and
// before every message; once the budget is spent the run stops without touching the
// current item. Progress is never stored: each run asks the mailbox again for
// messages carrying none of the category labels, so a run cut short by its budget
// is resumed by the next one.
//
// In message scope every unlabeled message is classified and labeled. In thread
// scope only the newest unlabeled message of a thread is classified and its label
// is applied to the thread.
//
// Oracle failures never abort a run. Any failed or malformed classification, and any
// panic inside the per-message guard, is labeled NotSure. Only label bootstrap that
// leaves no usable label, a failed search, a failed thread fetch or a cancelled
// context end the run in Failed.
package labeler
