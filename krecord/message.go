package krecord

import "google.golang.org/protobuf/proto"

// Message adapts a protobuf message to the Record contract. The length is the
// wire size of the message, computed without marshaling.
type Message struct {
	proto.Message
}

func (m Message) BinaryLength() int {
	return proto.Size(m.Message)
}

func (m Message) MarshalBinary() ([]byte, error) {
	return proto.Marshal(m.Message)
}

var _ Record = Message{}
