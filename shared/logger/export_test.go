package logger

var Setup = setup
