package game

// Scoring awards. Longest road is recomputed for every player on every
// road or settlement placement with a full DFS from each owned edge.
// Incremental updates would change when ties are observed, and with
// them which incumbent the sticky tie-break protects.

// isBlockingVertex reports whether a different player's building sits
// on the vertex. Such a vertex stops a road path but does not consume
// an edge.
func (g *Game) isBlockingVertex(vertexID, playerID int) bool {
	vertex := g.Board.Vertices[vertexID]
	return vertex.Occupied() && vertex.Owner != playerID
}

// longestRoadForPlayer runs an exhaustive depth-first search over the
// player's road network from both endpoints of every owned edge. The
// used-edge set is local to the current path, so different branches may
// reuse the same edge.
func (g *Game) longestRoadForPlayer(playerID int) int {
	player := g.Players[playerID]
	if len(player.Roads) == 0 {
		return 0
	}

	used := make(map[int]bool)

	var walk func(vertexID int) int
	walk = func(vertexID int) int {
		best := len(used)
		if g.isBlockingVertex(vertexID, playerID) {
			return best
		}

		for edgeID := range g.Board.Vertices[vertexID].AdjacentEdges {
			if used[edgeID] {
				continue
			}
			edge := g.Board.Edges[edgeID]
			if edge.Owner != playerID {
				continue
			}

			next := edge.V2
			if edge.V1 != vertexID {
				next = edge.V1
			}

			used[edgeID] = true
			if length := walk(next); length > best {
				best = length
			}
			delete(used, edgeID)
		}
		return best
	}

	best := 0
	for _, edgeID := range player.SortedRoads() {
		edge := g.Board.Edges[edgeID]
		used[edgeID] = true
		if length := walk(edge.V1); length > best {
			best = length
		}
		if length := walk(edge.V2); length > best {
			best = length
		}
		delete(used, edgeID)
	}
	return best
}

// recomputeLongestRoad refreshes every player's longest-road length and
// settles the 2-point award under the sticky tie-break: the holder only
// changes when a single strictly better contender exists, ties keep the
// incumbent, and a fresh tie without the incumbent elects nobody.
func (g *Game) recomputeLongestRoad() {
	for _, id := range g.PlayerIDs() {
		g.LongestRoadLengths[id] = g.longestRoadForPlayer(id)
	}

	best := 0
	for _, length := range g.LongestRoadLengths {
		if length > best {
			best = length
		}
	}

	var contenders []int
	for _, id := range g.PlayerIDs() {
		if g.LongestRoadLengths[id] == best {
			contenders = append(contenders, id)
		}
	}

	g.settleAward(&g.LongestRoadHolder, best, longestRoadMinimum, contenders)
}

// recomputeLargestArmy settles the 2-point award for knight plays under
// the same sticky tie-break as longest road.
func (g *Game) recomputeLargestArmy() {
	best := 0
	for _, count := range g.PlayedKnights {
		if count > best {
			best = count
		}
	}

	var contenders []int
	for _, id := range g.PlayerIDs() {
		if g.PlayedKnights[id] == best {
			contenders = append(contenders, id)
		}
	}

	g.settleAward(&g.LargestArmyHolder, best, largestArmyMinimum, contenders)
}

// settleAward applies the shared award-transfer rule and moves the
// 2-point bonus between the old and new holder.
func (g *Game) settleAward(holder *int, best, minimum int, contenders []int) {
	newHolder := NoPlayer
	if best >= minimum {
		if len(contenders) == 1 {
			newHolder = contenders[0]
		} else {
			for _, id := range contenders {
				if id == *holder {
					newHolder = *holder
					break
				}
			}
		}
	}

	if newHolder == *holder {
		return
	}
	if *holder != NoPlayer {
		g.removeVictoryPoints(*holder, 2)
	}
	if newHolder != NoPlayer {
		g.addVictoryPoints(newHolder, 2)
	}
	*holder = newHolder
}
