package kafka

var Handle = handle
