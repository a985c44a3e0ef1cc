package board

import "sort"

// CanPlaceSettlement reports whether the player may build a settlement
// on the vertex. The vertex and all adjacent vertices must be empty
// (distance rule). When requireConnectedRoad is set the player must
// additionally own a road on one of the vertex's edges; initial setup
// placements waive that requirement.
func (b *Board) CanPlaceSettlement(vertexID, playerID int, requireConnectedRoad bool) bool {
	vertex, ok := b.Vertices[vertexID]
	if !ok || vertex.Occupied() {
		return false
	}

	for neighborID := range vertex.AdjacentVertices {
		if b.Vertices[neighborID].Occupied() {
			return false
		}
	}

	if !requireConnectedRoad {
		return true
	}

	for edgeID := range vertex.AdjacentEdges {
		if b.Edges[edgeID].Owner == playerID {
			return true
		}
	}
	return false
}

// CanPlaceRoad reports whether the player may build a road on the edge.
// The edge must be empty and connect to the player's network: a building
// of theirs on either endpoint, or another road of theirs touching
// either endpoint.
func (b *Board) CanPlaceRoad(edgeID, playerID int) bool {
	edge, ok := b.Edges[edgeID]
	if !ok || edge.Occupied() {
		return false
	}

	v1 := b.Vertices[edge.V1]
	v2 := b.Vertices[edge.V2]

	if (v1.Occupied() && v1.Owner == playerID) || (v2.Occupied() && v2.Owner == playerID) {
		return true
	}

	for _, vertex := range [2]*Vertex{v1, v2} {
		for connectedID := range vertex.AdjacentEdges {
			if connectedID == edgeID {
				continue
			}
			if b.Edges[connectedID].Owner == playerID {
				return true
			}
		}
	}
	return false
}

// PortsForVertex returns the ports whose edge touches the vertex,
// ordered by port id.
func (b *Board) PortsForVertex(vertexID int) []*Port {
	var ports []*Port
	for _, port := range b.Ports {
		if port.Vertices[0] == vertexID || port.Vertices[1] == vertexID {
			ports = append(ports, port)
		}
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i].ID < ports[j].ID })
	return ports
}

// CoastalEdgeIDs returns the ids of all rim edges in ascending order.
func (b *Board) CoastalEdgeIDs() []int {
	var ids []int
	for id, edge := range b.Edges {
		if edge.Coastal() {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// SortedHexIDs returns all hex ids in ascending order. Generation
// assigns ids densely from zero, so this is the stable iteration order
// for anything that touches the bank or the random stream.
func (b *Board) SortedHexIDs() []int {
	ids := make([]int, 0, len(b.Hexes))
	for id := range b.Hexes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// SortedVertexIDs returns all vertex ids in ascending order.
func (b *Board) SortedVertexIDs() []int {
	ids := make([]int, 0, len(b.Vertices))
	for id := range b.Vertices {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// SortedEdgeIDs returns all edge ids in ascending order.
func (b *Board) SortedEdgeIDs() []int {
	ids := make([]int, 0, len(b.Edges))
	for id := range b.Edges {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// SortedPortIDs returns all port ids in ascending order.
func (b *Board) SortedPortIDs() []int {
	ids := make([]int, 0, len(b.Ports))
	for id := range b.Ports {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
