/*
Package types defines the data structures shared by the treeplot controller,
its front ends and the companion tree service.

# Overview

The types package provides shared type definitions for:
  - the structure mode (2D range tree or red-black tree)
  - parsed form values, including the not-a-number sentinel
  - insertion records and the on-screen log entries built from them
  - HTTP results returned by the dispatcher
  - classified outcomes consumed by the reconciler

# Modes

Mode selects which form is active and which endpoint is used:

	ModeRangeTree     POST /add-2d-range-tree   x=<int>&y=<int>
	ModeRedBlackTree  POST /add-red-black-tree  k=<int>

# Values

Form fields are parsed the way a browser's parseInt(s, 10) does: leading
whitespace and an optional sign, then the longest run of decimal digits.
Input without any digit becomes the NaN sentinel and is still sent:

	ParseValue("42")    // 42
	ParseValue(" -7px") // -7
	ParseValue("abc")   // NaN, Raw "abc"

# Outcomes

Every dispatched request ends in exactly one Outcome:
  - OutcomeImage: a 200 response whose body starts with "data:image"
  - OutcomeMessage: any other 200 response body
  - OutcomeTransportError: network failure or non-200 status
*/
package types
