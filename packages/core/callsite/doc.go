// Package callsite records where a check was made.
//
// A Context carries the source file, function and line of the caller and
// is passed by value into every check so failures can point at the line
// that produced them.
package callsite
