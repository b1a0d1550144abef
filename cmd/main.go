package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
	"github.com/forest-guardian/vegetation-mask/internal/delivery"
	"github.com/forest-guardian/vegetation-mask/internal/notification"
	"github.com/forest-guardian/vegetation-mask/internal/properties"
	"github.com/forest-guardian/vegetation-mask/internal/raster"
	"github.com/forest-guardian/vegetation-mask/internal/segmentation"
	"github.com/forest-guardian/vegetation-mask/output"
	"github.com/joho/godotenv"
)

func printBanner() {
	figure1 := figure.NewFigure("Vegetation", "isometric1", true)
	figure2 := figure.NewFigure("Mask", "isometric1", true)
	bannercolor.Green(figure1.String())
	bannercolor.Green(figure2.String())
	fmt.Println()
}

func readLine(reader *bufio.Reader, prompt string) string {
	fmt.Printf("\033[34m%s\033[0m", prompt)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func readRequest(reader *bufio.Reader, imagePath string) (delivery.Request, error) {
	req := delivery.Request{
		ImagePath: imagePath,
		IndexMin:  segmentation.DefaultIndexMin,
		IndexMax:  segmentation.DefaultIndexMax,
		Index:     segmentation.VARI,
	}

	zoom, err := strconv.Atoi(readLine(reader, "Enter the zoom level (0-23): "))
	if err != nil {
		return req, fmt.Errorf("invalid zoom level: %v", err)
	}
	req.ZoomLevel = zoom

	if raw := readLine(reader, "Enter the index minimum (default 0.1): "); raw != "" {
		req.IndexMin, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, fmt.Errorf("invalid index minimum: %v", err)
		}
	}
	if raw := readLine(reader, "Enter the index maximum (default 1.0): "); raw != "" {
		req.IndexMax, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, fmt.Errorf("invalid index maximum: %v", err)
		}
	}
	if raw := readLine(reader, "Enter the vegetation index (VARI, GLI, RGRI; default VARI): "); raw != "" {
		req.Index = segmentation.IndexKind(strings.ToUpper(raw))
	}
	return req, nil
}

func writeOutputs(req delivery.Request) {
	dense, err := delivery.ProcessImageCached(req)
	if err != nil {
		fmt.Printf("\n\033[31mError processing image: %s\033[0m\n", err.Error())
		return
	}

	base := strings.TrimSuffix(filepath.Base(req.ImagePath), filepath.Ext(req.ImagePath))
	outputDir := filepath.Join(properties.RootPath(), "data", "result")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Printf("\n\033[31mError creating result folder: %s\033[0m\n", err.Error())
		return
	}

	pngPath := filepath.Join(outputDir, base+"_mask.png")
	if err := output.WriteMaskPNG(dense, pngPath); err != nil {
		fmt.Printf("\n\033[31mError writing mask image: %s\033[0m\n", err.Error())
		return
	}

	jpegPath := filepath.Join(outputDir, base+"_classes.jpeg")
	if err := output.WriteMaskOverlayJPEG(dense, jpegPath); err != nil {
		fmt.Printf("\n\033[31mError writing class overlay: %s\033[0m\n", err.Error())
		return
	}

	fmt.Printf("\n\033[32mSuccessful segmentation!\n Mask image located at: %s\n Class overlay located at: %s\033[0m\n", pngPath, jpegPath)
	notification.SendDiscordSuccessNotification(fmt.Sprintf("Vegetation mask created for %s\nOutput: %s", req.ImagePath, pngPath))
}

func initCLI() {
	defer func() {
		if r := recover(); r != nil {
			pc, file, line, ok := runtime.Caller(3)
			var location string
			if ok {
				fn := runtime.FuncForPC(pc)
				location = fmt.Sprintf("%s:%d in %s", file, line, fn.Name())
			} else {
				location = "Unknown location"
			}

			fmt.Printf("\n\033[31mPANIC: %v\033[0m\n", r)
			fmt.Printf("\033[31mLocation: %s\033[0m\n", location)
			fmt.Printf("\033[31mExiting...\033[0m\n")

			stack := debug.Stack()
			errMessage := fmt.Sprintf("Vegetation mask CLI panic:\n\n%v\n\nLocation: %s\n\nStack trace:\n%s", r, location, stack)
			if err := notification.SendDiscordErrorNotification(errMessage); err != nil {
				fmt.Printf("\033[31mFailed to send notification: %s\033[0m\n", err.Error())
			}
		}
	}()
	printBanner()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println("\033[34m===================\033[0m")
		fmt.Println("\033[34m1. Segment a local image\033[0m")
		fmt.Println("\033[34m2. Segment an image from a URL\033[0m")
		fmt.Println("\033[34m3. Segment every image in a folder\033[0m")
		fmt.Println("\033[34m4. Exit\033[0m")
		fmt.Println("\033[34mEnter your choice:\033[0m")

		var choice int
		if _, err := fmt.Scan(&choice); err != nil {
			fmt.Printf("\n\033[31mInvalid input. Please enter a number.\033[0m\n")
			fmt.Scanln()
			continue
		}
		reader.ReadString('\n')

		switch choice {
		case 1:
			imagePath := readLine(reader, "Enter the image path: ")
			req, err := readRequest(reader, imagePath)
			if err != nil {
				fmt.Printf("\n\033[31m%s\033[0m\n", err.Error())
				continue
			}
			writeOutputs(req)
		case 2:
			url := readLine(reader, "Enter the image URL: ")
			req, err := readRequest(reader, "")
			if err != nil {
				fmt.Printf("\n\033[31m%s\033[0m\n", err.Error())
				continue
			}

			fetcher := raster.NewFetcher()
			img, err := fetcher.FetchImage(context.Background(), url)
			if err != nil {
				fmt.Printf("\n\033[31mError fetching image: %s\033[0m\n", err.Error())
				notification.SendDiscordErrorNotification(fmt.Sprintf("Vegetation mask CLI\n\nError fetching image: %s", err.Error()))
				continue
			}

			mask, err := segmentation.ProcessImage(img, req.ZoomLevel,
				segmentation.WithIndexRange(req.IndexMin, req.IndexMax),
				segmentation.WithIndexKind(req.Index),
			)
			img.Close()
			if err != nil {
				fmt.Printf("\n\033[31mError processing image: %s\033[0m\n", err.Error())
				continue
			}

			outputDir := filepath.Join(properties.RootPath(), "data", "result")
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				fmt.Printf("\n\033[31mError creating result folder: %s\033[0m\n", err.Error())
				continue
			}
			pngPath := filepath.Join(outputDir, "fetched_mask.png")
			if err := output.WriteMaskPNG(mask, pngPath); err != nil {
				fmt.Printf("\n\033[31mError writing mask image: %s\033[0m\n", err.Error())
				continue
			}
			fmt.Printf("\n\033[32mSuccessful segmentation!\n Mask image located at: %s\033[0m\n", pngPath)
		case 3:
			folder := readLine(reader, "Enter the folder path: ")
			req, err := readRequest(reader, "")
			if err != nil {
				fmt.Printf("\n\033[31m%s\033[0m\n", err.Error())
				continue
			}

			entries, err := os.ReadDir(folder)
			if err != nil {
				fmt.Printf("\n\033[31mError reading folder: %s\033[0m\n", err.Error())
				continue
			}

			var requests []delivery.Request
			for _, entry := range entries {
				name := strings.ToLower(entry.Name())
				if strings.HasSuffix(name, ".tif") || strings.HasSuffix(name, ".tiff") {
					r := req
					r.ImagePath = filepath.Join(folder, entry.Name())
					requests = append(requests, r)
				}
			}
			if len(requests) == 0 {
				fmt.Printf("\n\033[31mNo tiff images found in %s\033[0m\n", folder)
				continue
			}

			results, err := delivery.ProcessBatch(requests)
			if err != nil {
				fmt.Printf("\n\033[31mError processing batch: %s\033[0m\n", err.Error())
				notification.SendDiscordErrorNotification(fmt.Sprintf("Vegetation mask CLI\n\nError processing batch: %s", err.Error()))
				continue
			}

			outputDir := filepath.Join(properties.RootPath(), "data", "result")
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				fmt.Printf("\n\033[31mError creating result folder: %s\033[0m\n", err.Error())
				continue
			}
			for _, result := range results {
				base := strings.TrimSuffix(filepath.Base(result.Request.ImagePath), filepath.Ext(result.Request.ImagePath))
				pngPath := filepath.Join(outputDir, base+"_mask.png")
				if err := output.WriteMaskPNG(result.Mask, pngPath); err != nil {
					fmt.Printf("\n\033[31mError writing mask image: %s\033[0m\n", err.Error())
				}
			}
			fmt.Printf("\n\033[32mSegmented %d images into: %s\033[0m\n", len(results), outputDir)
			notification.SendDiscordSuccessNotification(fmt.Sprintf("Vegetation mask CLI\n\nSegmented %d images into %s", len(results), outputDir))
		case 4:
			println("Exiting...")
			return
		default:
			println("Invalid choice. Please try again.")
		}
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			fmt.Println("\033[33mNo .env file found, relying on the environment.\033[0m")
		}
	}

	initCLI()
}
