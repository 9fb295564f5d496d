package ranking

import "github.com/petermazzocco/picture-picker/models"

// Counts holds the up and down vote totals of a photo.
type Counts struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}

func (c Counts) Score() int {
	return c.Upvotes - c.Downvotes
}

// Tally counts votes. Values other than +1 and -1 are ignored.
func Tally(votes []models.Vote) Counts {
	var c Counts
	for _, v := range votes {
		switch v.Value {
		case 1:
			c.Upvotes++
		case -1:
			c.Downvotes++
		}
	}
	return c
}

// Score is Tally(p.Votes).Score().
func Score(p *models.Photo) int {
	return Tally(p.Votes).Score()
}
