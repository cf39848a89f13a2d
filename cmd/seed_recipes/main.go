package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/pageza/cookbook/backend/config"
	"github.com/pageza/cookbook/backend/internal/database"
	"github.com/pageza/cookbook/backend/internal/model"
	"github.com/pageza/cookbook/backend/internal/service"
)

type seedRecipe struct {
	name         string
	description  string
	ingredients  string
	instructions string
}

var seedRecipes = []seedRecipe{
	{
		name:         "Classic Pancakes",
		description:  "Fluffy weekend pancakes",
		ingredients:  "2 eggs\n1 cup flour\n1/2 cup milk\n1 tbsp sugar",
		instructions: "Whisk the wet ingredients.\nFold in the flour.\nCook on a hot griddle until golden.",
	},
	{
		name:         "Tomato Soup",
		description:  "Simple stovetop tomato soup",
		ingredients:  "6 ripe tomatoes\n1 onion\n2 cups vegetable stock\nbasil",
		instructions: "Sweat the onion.\nAdd tomatoes and stock, simmer 20 minutes.\nBlend and finish with basil.",
	},
	{
		name:         "Garlic Butter Pasta",
		description:  "",
		ingredients:  "200g spaghetti\n4 cloves garlic\n50g butter\nparsley",
		instructions: "Cook the pasta.\nMelt butter with garlic.\nToss and top with parsley.",
	},
}

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	for _, seed := range seedRecipes {
		body := service.ComposeTextBody(seed.ingredients, seed.instructions)
		recipe := model.Recipe{
			Name: seed.name,
			Text: &body,
		}
		if seed.description != "" {
			desc := seed.description
			recipe.Description = &desc
		}

		if err := db.Create(&recipe).Error; err != nil {
			log.Fatalf("Failed to seed recipe %q: %v", seed.name, err)
		}
		log.Printf("Seeded recipe %q (%s)", seed.name, recipe.ID)
	}

	log.Printf("Seeded %d recipes", len(seedRecipes))
}
