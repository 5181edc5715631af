package storage

var WithIDGenerator = withIDGenerator
