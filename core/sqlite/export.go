package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/FocuswithJustin/commedia/core/canticle"
	"github.com/FocuswithJustin/commedia/core/errors"
)

// Schema is the relational layout written by Export.
const Schema = `
CREATE TABLE IF NOT EXISTS canticles (
	name   TEXT PRIMARY KEY,
	title  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS cantos (
	canticle TEXT    NOT NULL REFERENCES canticles(name),
	number   INTEGER NOT NULL,
	numeral  TEXT    NOT NULL,
	PRIMARY KEY (canticle, number)
);
CREATE TABLE IF NOT EXISTS lines (
	canticle     TEXT    NOT NULL,
	canto        INTEGER NOT NULL,
	number       INTEGER NOT NULL,
	first_letter TEXT    NOT NULL,
	rhyme        TEXT    NOT NULL,
	word_count   INTEGER NOT NULL,
	PRIMARY KEY (canticle, canto, number),
	FOREIGN KEY (canticle, canto) REFERENCES cantos(canticle, number)
);
CREATE TABLE IF NOT EXISTS words (
	canticle   TEXT    NOT NULL,
	canto      INTEGER NOT NULL,
	line       INTEGER NOT NULL,
	position   INTEGER NOT NULL,
	syllables  INTEGER NOT NULL,
	text       TEXT    NOT NULL,
	PRIMARY KEY (canticle, canto, line, position),
	FOREIGN KEY (canticle, canto, line) REFERENCES lines(canticle, canto, number)
);
`

// Counts reports the rows written by Export.
type Counts struct {
	Canticles int
	Cantos    int
	Lines     int
	Words     int
}

// Export writes canticles into db in a single transaction, replacing any rows
// previously exported for the same canticles.
func Export(ctx context.Context, db *sql.DB, canticles []*canticle.Canticle) (*Counts, error) {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	counts := &Counts{}
	for _, c := range canticles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := exportCanticle(ctx, tx, c, counts); err != nil {
			return nil, errors.Wrapf(err, "export %s", c.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	return counts, nil
}

func exportCanticle(ctx context.Context, tx *sql.Tx, c *canticle.Canticle, counts *Counts) error {
	for _, table := range []string{"words", "lines", "cantos", "canticles"} {
		column := "canticle"
		if table == "canticles" {
			column = "name"
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, column), c.Name); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO canticles (name, title) VALUES (?, ?)", c.Name, c.Title()); err != nil {
		return err
	}
	counts.Canticles++

	cantoStmt, err := tx.PrepareContext(ctx, "INSERT INTO cantos (canticle, number, numeral) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer cantoStmt.Close()
	lineStmt, err := tx.PrepareContext(ctx, "INSERT INTO lines (canticle, canto, number, first_letter, rhyme, word_count) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer lineStmt.Close()
	wordStmt, err := tx.PrepareContext(ctx, "INSERT INTO words (canticle, canto, line, position, syllables, text) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer wordStmt.Close()

	for _, canto := range c.Cantos {
		if _, err := cantoStmt.ExecContext(ctx, c.Name, canto.Number, canto.Numeral()); err != nil {
			return err
		}
		counts.Cantos++

		for _, line := range canto.Lines {
			if len(line.Words) != len(line.Syllables) {
				return errors.NewMissingReference("word text", fmt.Sprintf("%s.%d.%d", c.Name, canto.Number, line.Number))
			}
			if _, err := lineStmt.ExecContext(ctx, c.Name, canto.Number, line.Number, line.FirstLetter, line.Rhyme, line.WordCount()); err != nil {
				return err
			}
			counts.Lines++

			for i, syll := range line.Syllables {
				if _, err := wordStmt.ExecContext(ctx, c.Name, canto.Number, line.Number, i+1, syll, line.Words[i]); err != nil {
					return err
				}
				counts.Words++
			}
		}
	}
	return nil
}
