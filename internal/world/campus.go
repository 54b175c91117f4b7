package world

// Campus returns the built-in default world: an 800x800 campus with thirty
// named destination buildings. The canteen ("mensa") and the library
// ("ikmz") carry a higher pick weight, everything else shares the remaining
// probability mass evenly.
func Campus() *Layout {
	return &Layout{
		Name:   "campus",
		Width:  800,
		Height: 800,
		Walls: []WallSpec{
			// north-west quarter
			{X1: 80, Y1: 80, X2: 200, Y2: 80, Thickness: 3},
			{X1: 150, Y1: 180, X2: 250, Y2: 180, Thickness: 3},
			{X1: 150, Y1: 180, X2: 150, Y2: 250, Thickness: 3},
			{X1: 100, Y1: 350, X2: 180, Y2: 350, Thickness: 5},
			// north-east quarter
			{X1: 650, Y1: 100, X2: 750, Y2: 100, Thickness: 3},
			{X1: 750, Y1: 100, X2: 750, Y2: 180, Thickness: 3},
			{X1: 560, Y1: 120, X2: 560, Y2: 180, Thickness: 3},
			{X1: 460, Y1: 40, X2: 460, Y2: 100, Thickness: 3},
			{X1: 450, Y1: 200, X2: 550, Y2: 200, Thickness: 3},
			{X1: 550, Y1: 200, X2: 550, Y2: 260, Thickness: 3},
			{X1: 600, Y1: 250, X2: 700, Y2: 250, Thickness: 5},
			// center
			{X1: 480, Y1: 300, X2: 480, Y2: 380, Thickness: 3},
			{X1: 300, Y1: 380, X2: 300, Y2: 440, Thickness: 3},
			{X1: 420, Y1: 480, X2: 500, Y2: 480, Thickness: 3},
			// south-west quarter
			{X1: 200, Y1: 400, X2: 200, Y2: 520, Thickness: 3},
			{X1: 200, Y1: 520, X2: 240, Y2: 520, Thickness: 3},
			{X1: 140, Y1: 600, X2: 140, Y2: 700, Thickness: 5},
			{X1: 360, Y1: 680, X2: 420, Y2: 680, Thickness: 3},
			// south-east quarter
			{X1: 760, Y1: 600, X2: 760, Y2: 700, Thickness: 3},
			{X1: 600, Y1: 760, X2: 700, Y2: 760, Thickness: 3},
		},
		Destinations: []Destination{
			{Name: "building-1", X: 640, Y: 510},
			{Name: "building-2", X: 630, Y: 460},
			{Name: "building-3", X: 710, Y: 560},
			{Name: "mensa", X: 710, Y: 450, Weight: 0.1},
			{Name: "building-5", X: 740, Y: 385},
			{Name: "building-6", X: 650, Y: 320},
			{Name: "building-7", X: 640, Y: 380},
			{Name: "building-8", X: 560, Y: 340},
			{Name: "building-9", X: 580, Y: 440},
			{Name: "building-10", X: 570, Y: 500},
			{Name: "building-11", X: 540, Y: 570},
			{Name: "building-12", X: 770, Y: 310},
			{Name: "building-13", X: 730, Y: 540},
			{Name: "building-14", X: 350, Y: 560},
			{Name: "building-14a", X: 380, Y: 540},
			{Name: "building-15", X: 310, Y: 610},
			{Name: "building-16", X: 310, Y: 570},
			{Name: "building-17", X: 310, Y: 530},
			{Name: "building-19", X: 470, Y: 730},
			{Name: "building-20", X: 590, Y: 700},
			{Name: "building-24", X: 560, Y: 630},
			{Name: "building-25", X: 320, Y: 150},
			{Name: "building-26", X: 410, Y: 130},
			{Name: "building-27", X: 400, Y: 300},
			{Name: "building-28", X: 260, Y: 320},
			{Name: "building-29", X: 370, Y: 360},
			{Name: "bud", X: 650, Y: 630},
			{Name: "ikmz", X: 280, Y: 470, Weight: 0.1},
			{Name: "building-31", X: 450, Y: 600},
			{Name: "building-35", X: 540, Y: 700},
		},
	}
}
