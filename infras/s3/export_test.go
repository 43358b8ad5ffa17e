package s3

var KeyFromURL = keyFromURL
