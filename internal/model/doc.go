package model

// Package model defines domain data structures shared by the download engine
// and its hosts: video metadata, platforms, progress snapshots, and the
// session state enum. Values are immutable once produced by the extractor or
// parser.
