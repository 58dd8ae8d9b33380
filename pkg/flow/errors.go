package flow

import "errors"

// ErrSessionNotFound is returned when a simulation id has no live session.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoStartNode is returned when a graph has no start node.
var ErrNoStartNode = errors.New("flow has no start node")

// ErrMultipleStartNodes is returned when a graph has more than one start node.
var ErrMultipleStartNodes = errors.New("flow has multiple start nodes")

// ErrUnknownNodeType is returned when a node declares a type outside the enum.
var ErrUnknownNodeType = errors.New("unknown node type")

// ErrDuplicateNodeID is returned when two nodes share an id.
var ErrDuplicateNodeID = errors.New("duplicate node id")
