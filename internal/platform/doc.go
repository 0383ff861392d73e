package platform

// Package platform contains OS integration glue: the downloads directory,
// directory creation, locating the yt-dlp executable, the single instance
// lock, and opening folders or revealing files in the system file manager.
