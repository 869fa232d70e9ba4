// Package olc encodes and decodes Open Location Codes (Plus Codes).
//
// A Plus Code is a short alphanumeric string naming a latitude/longitude
// rectangle. Codes are built from pairs of base-20 digits (one latitude,
// one longitude) down to the 10th digit, then from single grid digits that
// split the remaining cell into 5 rows by 4 columns. A separator '+' always
// follows the 8th digit; codes shorter than 8 digits are right-padded with
// '0' up to the separator.
//
// Full codes can be decoded on their own. Short codes omit one or more
// leading pairs and must be recovered against a nearby reference location.
//
// All functions are pure and safe for concurrent use.
package olc
