package ogain

import "github.com/cwbudde/algo-optgain/pipeline"

// Inputs returns the topics an OpticalGain consumes.
func (g *OpticalGain) Inputs() []pipeline.Topic {
	return []pipeline.Topic{pipeline.ModeCoefficients, pipeline.ResidualModeCoefficients}
}

// Outputs returns the topics an OpticalGain produces.
func (g *OpticalGain) Outputs() []pipeline.Topic {
	return []pipeline.Topic{pipeline.ModeCoefficients}
}

// Read dispatches msg on its topic.
func (g *OpticalGain) Read(msg pipeline.Message) {
	switch msg.Topic() {
	case pipeline.ModeCoefficients:
		g.ReadModes(msg.Values())
	case pipeline.ResidualModeCoefficients:
		g.ReadResidual(msg.Values())
	}
}

// Write publishes the perturbed mode vector.
func (g *OpticalGain) Write(topic pipeline.Topic) (pipeline.Message, bool) {
	if topic != pipeline.ModeCoefficients {
		return pipeline.Message{}, false
	}
	return pipeline.NewMessage(topic, g.WriteModes()), true
}
