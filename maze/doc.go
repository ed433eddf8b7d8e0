// Package maze finds the fewest total moves a fixed group of agents needs to
// collect every key of a grid maze, where doors open once their key has been
// picked up by any agent.
//
// The grid is first compressed into a Graph whose nodes are agent starts and
// keys (BuildGraph). Each edge carries the distance of one shortest grid path
// and the doors on that path. Search then runs Dijkstra over states made of
// every agent's node plus the set of collected keys.
//
// BruteForce walks the raw grid instead of the graph. It is much slower and
// is meant as a reference for small inputs.
package maze
