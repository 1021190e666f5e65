package service

// Broadcaster pushes events to a client's open websockets (avoids import cycle)
type Broadcaster interface {
	SendToClient(clientID string, msgType string, payload interface{})
}

type nopBroadcaster struct{}

func (nopBroadcaster) SendToClient(string, string, interface{}) {}
