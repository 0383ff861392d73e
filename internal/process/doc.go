package process

// Package process runs the external extraction tool as a child process. It
// streams stdout line by line (download mode) or captures it whole (info
// mode), keeps a stderr tail for diagnostics, classifies exit status, and
// terminates the whole process tree on request.
