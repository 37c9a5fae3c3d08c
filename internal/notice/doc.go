// Package notice is the process-wide channel for user-visible notices.
//
// Services publish failures (for example a rejected write to the secure
// store) without waiting for acknowledgement; the UI layer subscribes and
// renders them.
package notice
